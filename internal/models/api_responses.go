package models

// Page is a paginated listing.
type Page[T any] struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Data  []T   `json:"data"`
}

// NewPage builds a page, making sure Data encodes as an empty array rather than null.
func NewPage[T any](page, limit int, total int64, data []T) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Page: page, Limit: limit, Total: total, Data: data}
}

// TokenResponse is returned by the login endpoints.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	User      *User  `json:"user"`
}

// LikeStatus tells whether the current user liked an article.
type LikeStatus struct {
	Liked bool `json:"liked"`
}

// LikeCount is the number of likes an article has.
type LikeCount struct {
	Total int64 `json:"total"`
}
