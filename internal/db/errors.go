package db

import "errors"

// Domain-level database error sentinels.
var (
	// Article errors
	ErrArticleNotFound = errors.New("article not found")
	// ErrTransitionConflict means the article changed status between load and save.
	ErrTransitionConflict = errors.New("article status changed concurrently")

	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Category errors
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryInUse     = errors.New("category still has articles")

	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidParent   = errors.New("parent comment does not belong to this article")
)
