package models

import "time"

// Comment is a reader comment on an approved article. IsApproved is a spam
// flag toggled by moderators and is unrelated to the article's status.
type Comment struct {
	ID         int64     `json:"id"`
	ArticleID  int64     `json:"article_id"`
	UserID     int64     `json:"user_id"`
	ParentID   *int64    `json:"parent_id"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`

	AuthorName string `json:"author_name,omitempty"`
}
