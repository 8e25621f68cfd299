package email

import (
	"log/slog"

	"articlehub/internal/config"
	"articlehub/internal/metrics"
	"articlehub/internal/models"
)

// Notifier tells authors about moderation outcomes. Delivery is best-effort.
type Notifier struct {
	service   *Service
	templates *Templates
	logger    *slog.Logger
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		service:   NewService(cfg, logger),
		templates: NewTemplates(cfg),
		logger:    logger,
	}
}

// ArticleReviewed notifies the author of an approved or rejected article.
// Articles in any other state are ignored.
func (n *Notifier) ArticleReviewed(article *models.Article) {
	if !n.service.IsEnabled() || article == nil {
		return
	}
	if article.AuthorEmail == "" {
		n.logger.Debug("skipping review notification, author has no email", "article_id", article.ID)
		return
	}

	var subject, htmlBody, textBody string
	switch article.Status {
	case models.StatusApproved:
		subject, htmlBody, textBody = n.templates.ArticleApproved(article)
	case models.StatusRejected:
		reason := ""
		if article.RejectionReason != nil {
			reason = *article.RejectionReason
		}
		subject, htmlBody, textBody = n.templates.ArticleRejected(article, reason)
	default:
		return
	}

	n.service.SendAsync([]string{article.AuthorEmail}, subject, htmlBody, textBody, metrics.RecordNotification)
}

// Wait blocks until queued notifications have been sent.
func (n *Notifier) Wait() {
	n.service.Wait()
}
