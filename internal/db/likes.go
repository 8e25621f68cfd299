package db

import (
	"context"
)

// LikeArticle records a like. It reports false if the user already liked
// the article.
func (d *DB) LikeArticle(ctx context.Context, userID, articleID int64) (bool, error) {
	result, err := d.Pool.Exec(ctx, `
		INSERT INTO likes (user_id, article_id) VALUES ($1, $2)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`, userID, articleID)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return false, ErrArticleNotFound
	}
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// UnlikeArticle removes a like. It reports false if there was none.
func (d *DB) UnlikeArticle(ctx context.Context, userID, articleID int64) (bool, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND article_id = $2`, userID, articleID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// HasLiked reports whether the user likes the article.
func (d *DB) HasLiked(ctx context.Context, userID, articleID int64) (bool, error) {
	var liked bool
	err := d.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND article_id = $2)`, userID, articleID).Scan(&liked)
	return liked, err
}

// CountLikes returns the number of likes on an article.
func (d *DB) CountLikes(ctx context.Context, articleID int64) (int64, error) {
	var total int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE article_id = $1`, articleID).Scan(&total)
	return total, err
}
