package models

import "time"

// ArticleStatus is the moderation state of an article.
type ArticleStatus string

// Article status constants
const (
	StatusPending  ArticleStatus = "pending"
	StatusApproved ArticleStatus = "approved"
	StatusRejected ArticleStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Article is a piece of user-submitted content that goes through moderation
// before it becomes publicly visible.
type Article struct {
	ID              int64         `json:"id"`
	AuthorID        int64         `json:"author_id"`
	CategoryID      int64         `json:"category_id"`
	Title           string        `json:"title"`
	Content         string        `json:"content,omitempty"`
	Status          ArticleStatus `json:"status"`
	RejectionReason *string       `json:"rejection_reason"` // set only while status is rejected
	ReviewedBy      *int64        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Non-DB fields, populated via JOIN for display
	Excerpt      string `json:"excerpt,omitempty"`
	AuthorName   string `json:"author_name,omitempty"`
	AuthorEmail  string `json:"author_email,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

// IsApproved returns true if the article is publicly visible.
func (a *Article) IsApproved() bool {
	return a.Status == StatusApproved
}

// IsPending returns true if the article is waiting for a moderator.
func (a *Article) IsPending() bool {
	return a.Status == StatusPending
}

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	Status     ArticleStatus // empty = any status
	CategoryID int64         // 0 = any category
	AuthorID   int64         // 0 = any author
	Page       int
	Limit      int
}

// Offset returns the row offset for the filter's page.
func (f ArticleFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
