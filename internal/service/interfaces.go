package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"articlehub/internal/models"
)

type ArticleStore interface {
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticleByID(ctx context.Context, id int64) (*models.Article, error)
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int64, error)
	UpdateArticle(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, id int64) error
	SaveArticleTransition(ctx context.Context, id int64, expected, next models.ArticleStatus, reason *string, reviewerID int64) (*models.Article, error)
}

type CommentStore interface {
	ListComments(ctx context.Context, articleID int64, includeHidden bool) ([]models.Comment, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	SetCommentApproval(ctx context.Context, id int64, approved bool) error
}

type LikeStore interface {
	LikeArticle(ctx context.Context, userID, articleID int64) (bool, error)
	UnlikeArticle(ctx context.Context, userID, articleID int64) (bool, error)
	HasLiked(ctx context.Context, userID, articleID int64) (bool, error)
	CountLikes(ctx context.Context, articleID int64) (int64, error)
}

type ActivityRecorder interface {
	Record(userID *int64, action string, metadata map[string]any)
}

type Notifier interface {
	ArticleReviewed(article *models.Article)
}
