package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"articlehub/internal/db"
	"articlehub/internal/metrics"
	"articlehub/internal/models"
	"articlehub/internal/policy"
	"articlehub/internal/validation"
)

// maxTransitionAttempts bounds retries when a concurrent moderator changes
// the status between load and save.
const maxTransitionAttempts = 3

// ArticleInput carries the editable fields of an article. On update, zero
// values leave the stored field unchanged.
type ArticleInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int64  `json:"category_id"`
}

// ArticleService implements article operations.
type ArticleService struct {
	articles ArticleStore
	activity ActivityRecorder
	notifier Notifier
}

// NewArticleService creates an article service. activity and notifier may be nil.
func NewArticleService(articles ArticleStore, activity ActivityRecorder, notifier Notifier) *ArticleService {
	if activity == nil {
		activity = noopRecorder{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ArticleService{articles: articles, activity: activity, notifier: notifier}
}

// load returns nil, nil when the article does not exist so the policy can
// answer with the same denial it uses for hidden articles.
func (s *ArticleService) load(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.articles.GetArticleByID(ctx, id)
	if errors.Is(err, db.ErrArticleNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load article %d: %w", id, err)
	}
	return article, nil
}

// Create submits a new article for moderation.
func (s *ArticleService) Create(ctx context.Context, requester policy.Requester, in ArticleInput) (*models.Article, error) {
	if d := policy.DecideCreate(requester); !d.Allowed() {
		return nil, d.Err()
	}
	authorID, _ := requester.UserID()

	in.Title = strings.TrimSpace(in.Title)
	if ok, msg := validation.ValidateTitle(in.Title); !ok {
		return nil, validation.Fail(msg)
	}
	if ok, msg := validation.ValidateContent(in.Content); !ok {
		return nil, validation.Fail(msg)
	}
	if in.CategoryID <= 0 {
		return nil, validation.Fail("category_id is required")
	}

	article := &models.Article{
		AuthorID:   authorID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Content:    in.Content,
	}
	if err := s.articles.CreateArticle(ctx, article); err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return nil, validation.Fail("category does not exist")
		}
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.activity.Record(&authorID, models.ActivityCreateArticle, map[string]any{
		"article_id": article.ID,
		"title":      article.Title,
	})
	return article, nil
}

// Get returns an article if the requester may see it.
func (s *ArticleService) Get(ctx context.Context, requester policy.Requester, id int64) (*models.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := decide(policy.Read, article, requester); !d.Allowed() {
		return nil, d.Err()
	}
	return article, nil
}

// Update edits an article's title, content or category. The moderation
// status is left as it is.
func (s *ArticleService) Update(ctx context.Context, requester policy.Requester, id int64, in ArticleInput) (*models.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := decide(policy.Update, article, requester); !d.Allowed() {
		return nil, d.Err()
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if ok, msg := validation.ValidateTitle(title); !ok {
			return nil, validation.Fail(msg)
		}
		article.Title = title
	}
	if in.Content != "" {
		if ok, msg := validation.ValidateContent(in.Content); !ok {
			return nil, validation.Fail(msg)
		}
		article.Content = in.Content
	}
	if in.CategoryID > 0 {
		article.CategoryID = in.CategoryID
	}

	if err := s.articles.UpdateArticle(ctx, article); err != nil {
		switch {
		case errors.Is(err, db.ErrArticleNotFound):
			return nil, decide(policy.Update, nil, requester).Err()
		case errors.Is(err, db.ErrCategoryNotFound):
			return nil, validation.Fail("category does not exist")
		}
		return nil, fmt.Errorf("update article: %w", err)
	}

	s.activity.Record(actorID(requester), models.ActivityUpdateArticle, map[string]any{"article_id": id})
	return s.articles.GetArticleByID(ctx, id)
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, requester policy.Requester, id int64) error {
	article, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if d := decide(policy.Delete, article, requester); !d.Allowed() {
		return d.Err()
	}

	if err := s.articles.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			return decide(policy.Delete, nil, requester).Err()
		}
		return fmt.Errorf("delete article: %w", err)
	}

	s.activity.Record(actorID(requester), models.ActivityDeleteArticle, map[string]any{
		"article_id": id,
		"title":      article.Title,
	})
	return nil
}

// Approve publishes an article.
func (s *ArticleService) Approve(ctx context.Context, requester policy.Requester, id int64) (*models.Article, error) {
	return s.moderate(ctx, requester, id, policy.Approve)
}

// Reject hides an article with a reason shown to its author.
func (s *ArticleService) Reject(ctx context.Context, requester policy.Requester, id int64, reason string) (*models.Article, error) {
	return s.moderate(ctx, requester, id, policy.Reject(reason))
}

// moderate applies a moderation transition with compare-and-set semantics.
// If another moderator changes the status between load and save, the
// article is reloaded and the decision re-evaluated; the last write wins.
func (s *ArticleService) moderate(ctx context.Context, requester policy.Requester, id int64, action policy.Action) (*models.Article, error) {
	for attempt := 1; ; attempt++ {
		article, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if d := decide(action, article, requester); !d.Allowed() {
			return nil, d.Err()
		}
		// an allowed moderation decision implies a valid account id
		reviewerID, _ := requester.UserID()

		transition, err := policy.Apply(action)
		if err != nil {
			return nil, err
		}

		saved, err := s.articles.SaveArticleTransition(ctx, id, article.Status, transition.Status, transition.Reason, reviewerID)
		switch {
		case err == nil:
			s.recordModeration(requester, saved, transition)
			return saved, nil
		case errors.Is(err, db.ErrTransitionConflict) && attempt < maxTransitionAttempts:
			metrics.RecordTransitionRetry()
			continue
		case errors.Is(err, db.ErrArticleNotFound):
			return nil, decide(action, nil, requester).Err()
		default:
			return nil, fmt.Errorf("save transition for article %d: %w", id, err)
		}
	}
}

func (s *ArticleService) recordModeration(requester policy.Requester, article *models.Article, transition policy.Transition) {
	metadata := map[string]any{"article_id": article.ID, "title": article.Title}
	kind := models.ActivityApproveArticle
	if transition.Reason != nil {
		kind = models.ActivityRejectArticle
		metadata["reason"] = *transition.Reason
	}

	s.activity.Record(actorID(requester), kind, metadata)
	s.notifier.ArticleReviewed(article)
}

// ListApproved returns the public listing. The status filter is forced to approved.
func (s *ArticleService) ListApproved(ctx context.Context, filter models.ArticleFilter) (models.Page[models.Article], error) {
	filter.Status = models.StatusApproved
	filter.AuthorID = 0
	return s.list(ctx, filter)
}

// ListMine returns the requester's own articles in any status.
func (s *ArticleService) ListMine(ctx context.Context, requester policy.Requester, filter models.ArticleFilter) (models.Page[models.Article], error) {
	if d := policy.DecideCreate(requester); !d.Allowed() {
		return models.Page[models.Article]{}, d.Err()
	}
	filter.AuthorID, _ = requester.UserID()
	return s.list(ctx, filter)
}

// ListForModeration returns articles of every author for moderators.
func (s *ArticleService) ListForModeration(ctx context.Context, requester policy.Requester, filter models.ArticleFilter) (models.Page[models.Article], error) {
	if d := policy.DecideModerationQueue(requester); !d.Allowed() {
		return models.Page[models.Article]{}, d.Err()
	}
	return s.list(ctx, filter)
}

// ListPending returns the moderation queue.
func (s *ArticleService) ListPending(ctx context.Context, requester policy.Requester, filter models.ArticleFilter) (models.Page[models.Article], error) {
	filter.Status = models.StatusPending
	return s.ListForModeration(ctx, requester, filter)
}

func (s *ArticleService) list(ctx context.Context, filter models.ArticleFilter) (models.Page[models.Article], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return models.Page[models.Article]{}, validation.Fail("invalid status filter")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > validation.MaxLimit {
		filter.Limit = validation.DefaultLimit
	}

	articles, total, err := s.articles.ListArticles(ctx, filter)
	if err != nil {
		return models.Page[models.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	return models.NewPage(filter.Page, filter.Limit, total, articles), nil
}
