package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"articlehub/internal/models"
)

// articleColumns is the standard column list for single-article queries.
const articleColumns = `a.id, a.author_id, a.category_id, a.title, a.content, a.status,
	a.rejection_reason, a.reviewed_by, a.reviewed_at, a.created_at, a.updated_at,
	u.fullname, u.email, c.name`

// articleSummaryColumns replaces the body with a short excerpt for listings.
const articleSummaryColumns = `a.id, a.author_id, a.category_id, a.title, LEFT(a.content, 200), a.status,
	a.rejection_reason, a.reviewed_by, a.reviewed_at, a.created_at, a.updated_at,
	u.fullname, u.email, c.name`

const articleJoins = `
	FROM articles a
	JOIN users u ON u.id = a.author_id
	JOIN categories c ON c.id = a.category_id`

func scanArticle(row pgx.Row) (*models.Article, error) {
	var article models.Article
	err := row.Scan(
		&article.ID,
		&article.AuthorID,
		&article.CategoryID,
		&article.Title,
		&article.Content,
		&article.Status,
		&article.RejectionReason,
		&article.ReviewedBy,
		&article.ReviewedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.AuthorName,
		&article.AuthorEmail,
		&article.CategoryName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle inserts a new article in the pending state.
func (d *DB) CreateArticle(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (author_id, category_id, title, content, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		article.AuthorID,
		article.CategoryID,
		article.Title,
		article.Content,
		models.StatusPending,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}

	article.Status = models.StatusPending
	article.RejectionReason = nil
	return nil
}

// GetArticleByID retrieves an article with its author and category names.
func (d *DB) GetArticleByID(ctx context.Context, id int64) (*models.Article, error) {
	return scanArticle(d.Pool.QueryRow(ctx, `SELECT `+articleColumns+articleJoins+` WHERE a.id = $1`, id))
}

// ListArticles returns one page of articles matching filter, newest first,
// and the total number of matches. Content is truncated to an excerpt.
func (d *DB) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int64, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("a.category_id = $%d", len(args)))
	}
	if filter.AuthorID > 0 {
		args = append(args, filter.AuthorID)
		conds = append(conds, fmt.Sprintf("a.author_id = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY a.created_at DESC, a.id DESC LIMIT $%d OFFSET $%d`,
		articleSummaryColumns, articleJoins, where, len(args)+1, len(args)+2)
	rows, err := d.Pool.Query(ctx, query, append(args, filter.Limit, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		article.Excerpt, article.Content = article.Content, ""
		articles = append(articles, *article)
	}
	return articles, total, rows.Err()
}

// UpdateArticle saves the editable fields of an article. Status and
// rejection reason are not touched.
func (d *DB) UpdateArticle(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET title = $2, content = $3, category_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.CategoryID,
	).Scan(&article.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrArticleNotFound
	}
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrCategoryNotFound
	}
	return err
}

// DeleteArticle removes an article together with its comments and likes.
func (d *DB) DeleteArticle(ctx context.Context, id int64) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// SaveArticleTransition moves an article to next only if it is still in
// expected. Status and rejection reason are written in the same statement,
// and the returned record is read inside the same transaction while the row
// is still locked, so it always reflects this transition.
// It returns ErrTransitionConflict when another writer changed the status
// first and ErrArticleNotFound when the article is gone.
func (d *DB) SaveArticleTransition(ctx context.Context, id int64, expected, next models.ArticleStatus, reason *string, reviewerID int64) (*models.Article, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE articles SET
			status = $3,
			rejection_reason = $4,
			reviewed_by = $5,
			reviewed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := tx.Exec(ctx, query, id, expected, next, reason, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("save transition: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrArticleNotFound
		}
		return nil, ErrTransitionConflict
	}

	article, err := scanArticle(tx.QueryRow(ctx, `SELECT `+articleColumns+articleJoins+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return article, nil
}

// CountArticlesByStatus returns the number of articles in each moderation state.
func (d *DB) CountArticlesByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM articles GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}
