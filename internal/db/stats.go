package db

import (
	"context"

	"articlehub/internal/models"
)

// GetDashboardStats returns the site-wide counters shown on the admin dashboard.
func (d *DB) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	err := d.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM comments),
			(SELECT COUNT(*) FROM likes),
			(SELECT COUNT(*) FROM articles WHERE status = 'pending')
	`).Scan(&s.Users, &s.Articles, &s.Comments, &s.Likes, &s.PendingArticles)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
