package models

import "time"

// Like records that a user liked an article. A user likes an article at most once.
type Like struct {
	UserID    int64     `json:"user_id"`
	ArticleID int64     `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}
