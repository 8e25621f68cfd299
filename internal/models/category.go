package models

// Category groups articles by topic.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
