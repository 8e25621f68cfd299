package models

// DashboardStats contains the admin dashboard counters.
type DashboardStats struct {
	Users           int64 `json:"users"`
	Articles        int64 `json:"articles"`
	Comments        int64 `json:"comments"`
	Likes           int64 `json:"likes"`
	PendingArticles int64 `json:"pending_articles"`
}

// StatusCount is the number of articles in a given moderation state.
type StatusCount struct {
	Status ArticleStatus
	Count  int64
}
