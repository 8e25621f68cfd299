package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"articlehub/internal/models"
)

const commentColumns = `cm.id, cm.article_id, cm.user_id, cm.parent_id, cm.content, cm.is_approved, cm.created_at, u.fullname`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.UserID,
		&comment.ParentID,
		&comment.Content,
		&comment.IsApproved,
		&comment.CreatedAt,
		&comment.AuthorName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns an article's comments oldest first. Comments flagged
// as unapproved are included only when includeHidden is set.
func (d *DB) ListComments(ctx context.Context, articleID int64, includeHidden bool) ([]models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.article_id = $1 AND (cm.is_approved OR $2)
		ORDER BY cm.created_at ASC, cm.id ASC
	`

	rows, err := d.Pool.Query(ctx, query, articleID, includeHidden)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

// GetComment retrieves a single comment.
func (d *DB) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return scanComment(d.Pool.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.id = $1
	`, id))
}

// CreateComment inserts a comment. A reply must point at a comment on the
// same article.
func (d *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if comment.ParentID != nil {
		var parentArticle int64
		err := tx.QueryRow(ctx, `SELECT article_id FROM comments WHERE id = $1`, *comment.ParentID).Scan(&parentArticle)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && parentArticle != comment.ArticleID) {
			return ErrInvalidParent
		}
		if err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO comments (article_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_approved, created_at
	`, comment.ArticleID, comment.UserID, comment.ParentID, comment.Content).
		Scan(&comment.ID, &comment.IsApproved, &comment.CreatedAt)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrArticleNotFound
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteComment removes a comment and its replies.
func (d *DB) DeleteComment(ctx context.Context, id int64) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// SetCommentApproval sets a comment's approval flag.
func (d *DB) SetCommentApproval(ctx context.Context, id int64, approved bool) error {
	result, err := d.Pool.Exec(ctx, `UPDATE comments SET is_approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}
