package email

import (
	"fmt"
	"html"

	"articlehub/internal/config"
	"articlehub/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .success { color: #059669; }
        .error { color: #dc2626; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`,
		html.EscapeString(title),
		html.EscapeString(t.cfg.SiteTitle),
		content,
		html.EscapeString(t.cfg.SiteTitle),
		html.EscapeString(t.cfg.BaseURL),
		html.EscapeString(t.cfg.BaseURL),
	)
}

func (t *Templates) articleURL(article *models.Article) string {
	return fmt.Sprintf("%s/articles/%d", t.cfg.BaseURL, article.ID)
}

// ArticleApproved generates email for the author when their article is published.
func (t *Templates) ArticleApproved(article *models.Article) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Your article '%s' has been published", t.cfg.SiteTitle, article.Title)

	content := fmt.Sprintf(`
        <p>Hi %s, your article has been approved and is now visible to everyone.</p>
        <div class="info-box">
            <p><span class="label">Title:</span> %s</p>
            <p><span class="label">Status:</span> <span class="success">Approved</span></p>
        </div>
        <p><a href="%s">Read it online</a></p>
    `,
		html.EscapeString(article.AuthorName),
		html.EscapeString(article.Title),
		html.EscapeString(t.articleURL(article)),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

Your article has been approved and is now visible to everyone.

Title: %s
Status: Approved

Read it at: %s

--
%s
%s`,
		article.AuthorName,
		article.Title,
		t.articleURL(article),
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// ArticleRejected generates email for the author when their article is rejected.
func (t *Templates) ArticleRejected(article *models.Article, reason string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Your article '%s' was not approved", t.cfg.SiteTitle, article.Title)

	content := fmt.Sprintf(`
        <p>Hi %s, unfortunately your article was not approved.</p>
        <div class="info-box">
            <p><span class="label">Title:</span> %s</p>
            <p><span class="label">Status:</span> <span class="error">Rejected</span></p>
            <p><span class="label">Reason:</span> %s</p>
        </div>
        <p>You can edit the article and ask a moderator to review it again.</p>
    `,
		html.EscapeString(article.AuthorName),
		html.EscapeString(article.Title),
		html.EscapeString(reason),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

Unfortunately your article was not approved.

Title: %s
Status: Rejected
Reason: %s

You can edit the article and ask a moderator to review it again.

--
%s
%s`,
		article.AuthorName,
		article.Title,
		reason,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}
