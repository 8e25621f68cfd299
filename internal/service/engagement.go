package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"articlehub/internal/db"
	"articlehub/internal/models"
	"articlehub/internal/policy"
	"articlehub/internal/validation"
)

const msgCommentNotFound = "comment not found"

// EngagementService implements comments and likes. Every operation is gated
// on the visibility of the parent article.
type EngagementService struct {
	articles ArticleStore
	comments CommentStore
	likes    LikeStore
	activity ActivityRecorder
}

// NewEngagementService creates an engagement service. activity may be nil.
func NewEngagementService(articles ArticleStore, comments CommentStore, likes LikeStore, activity ActivityRecorder) *EngagementService {
	if activity == nil {
		activity = noopRecorder{}
	}
	return &EngagementService{articles: articles, comments: comments, likes: likes, activity: activity}
}

// gate loads the parent article and checks action against it.
func (s *EngagementService) gate(ctx context.Context, requester policy.Requester, articleID int64, action policy.Action) error {
	article, err := s.articles.GetArticleByID(ctx, articleID)
	if errors.Is(err, db.ErrArticleNotFound) {
		article, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("load article %d: %w", articleID, err)
	}
	return decide(action, article, requester).Err()
}

// ListComments returns the comments on an article. Moderators also see
// comments flagged as unapproved.
func (s *EngagementService) ListComments(ctx context.Context, requester policy.Requester, articleID int64) ([]models.Comment, error) {
	if err := s.gate(ctx, requester, articleID, policy.CommentRead); err != nil {
		return nil, err
	}

	includeHidden := policy.DecideCommentModeration(requester).Allowed()
	comments, err := s.comments.ListComments(ctx, articleID, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// CreateComment posts a comment or a reply to parentID.
func (s *EngagementService) CreateComment(ctx context.Context, requester policy.Requester, articleID int64, content string, parentID *int64) (*models.Comment, error) {
	if err := s.gate(ctx, requester, articleID, policy.CommentCreate); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if ok, msg := validation.ValidateComment(content); !ok {
		return nil, validation.Fail(msg)
	}

	userID, _ := requester.UserID()
	comment := &models.Comment{
		ArticleID: articleID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		switch {
		case errors.Is(err, db.ErrInvalidParent):
			return nil, validation.Fail("parent comment does not belong to this article")
		case errors.Is(err, db.ErrArticleNotFound):
			return nil, decide(policy.CommentCreate, nil, requester).Err()
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.activity.Record(&userID, models.ActivityCreateComment, map[string]any{
		"article_id": articleID,
		"comment_id": comment.ID,
	})
	return comment, nil
}

// DeleteComment removes a comment. Only its author or an admin may do so.
func (s *EngagementService) DeleteComment(ctx context.Context, requester policy.Requester, commentID int64) error {
	comment, err := s.comments.GetComment(ctx, commentID)
	if errors.Is(err, db.ErrCommentNotFound) {
		return notFound(msgCommentNotFound)
	}
	if err != nil {
		return fmt.Errorf("load comment %d: %w", commentID, err)
	}
	if d := policy.DecideEngagementDelete(requester, comment.UserID); !d.Allowed() {
		return d.Err()
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, db.ErrCommentNotFound) {
			return notFound(msgCommentNotFound)
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	s.activity.Record(actorID(requester), models.ActivityDeleteComment, map[string]any{
		"article_id": comment.ArticleID,
		"comment_id": commentID,
	})
	return nil
}

// SetCommentApproval shows or hides a comment.
func (s *EngagementService) SetCommentApproval(ctx context.Context, requester policy.Requester, commentID int64, approved bool) (*models.Comment, error) {
	if d := policy.DecideCommentModeration(requester); !d.Allowed() {
		return nil, d.Err()
	}

	if err := s.comments.SetCommentApproval(ctx, commentID, approved); err != nil {
		if errors.Is(err, db.ErrCommentNotFound) {
			return nil, notFound(msgCommentNotFound)
		}
		return nil, fmt.Errorf("moderate comment: %w", err)
	}

	s.activity.Record(actorID(requester), models.ActivityModerateComment, map[string]any{
		"comment_id":  commentID,
		"is_approved": approved,
	})
	return s.comments.GetComment(ctx, commentID)
}

// Like records the requester's like. Liking twice is a no-op.
func (s *EngagementService) Like(ctx context.Context, requester policy.Requester, articleID int64) (models.LikeStatus, error) {
	if err := s.gate(ctx, requester, articleID, policy.LikeCreate); err != nil {
		return models.LikeStatus{}, err
	}

	userID, _ := requester.UserID()
	created, err := s.likes.LikeArticle(ctx, userID, articleID)
	if err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			return models.LikeStatus{}, decide(policy.LikeCreate, nil, requester).Err()
		}
		return models.LikeStatus{}, fmt.Errorf("like article: %w", err)
	}
	if created {
		s.activity.Record(&userID, models.ActivityLikeArticle, map[string]any{"article_id": articleID})
	}
	return models.LikeStatus{Liked: true}, nil
}

// Unlike removes the requester's like. Unliking twice is a no-op.
func (s *EngagementService) Unlike(ctx context.Context, requester policy.Requester, articleID int64) (models.LikeStatus, error) {
	if err := s.gate(ctx, requester, articleID, policy.LikeCreate); err != nil {
		return models.LikeStatus{}, err
	}

	userID, _ := requester.UserID()
	removed, err := s.likes.UnlikeArticle(ctx, userID, articleID)
	if err != nil {
		return models.LikeStatus{}, fmt.Errorf("unlike article: %w", err)
	}
	if removed {
		s.activity.Record(&userID, models.ActivityUnlikeArticle, map[string]any{"article_id": articleID})
	}
	return models.LikeStatus{Liked: false}, nil
}

// LikeStatus reports whether the requester likes the article.
func (s *EngagementService) LikeStatus(ctx context.Context, requester policy.Requester, articleID int64) (models.LikeStatus, error) {
	if err := s.gate(ctx, requester, articleID, policy.LikeRead); err != nil {
		return models.LikeStatus{}, err
	}

	userID, ok := requester.UserID()
	if !ok {
		return models.LikeStatus{}, nil
	}
	liked, err := s.likes.HasLiked(ctx, userID, articleID)
	if err != nil {
		return models.LikeStatus{}, fmt.Errorf("like status: %w", err)
	}
	return models.LikeStatus{Liked: liked}, nil
}

// LikeCount returns the number of likes on an article.
func (s *EngagementService) LikeCount(ctx context.Context, requester policy.Requester, articleID int64) (models.LikeCount, error) {
	if err := s.gate(ctx, requester, articleID, policy.LikeRead); err != nil {
		return models.LikeCount{}, err
	}

	total, err := s.likes.CountLikes(ctx, articleID)
	if err != nil {
		return models.LikeCount{}, fmt.Errorf("count likes: %w", err)
	}
	return models.LikeCount{Total: total}, nil
}
