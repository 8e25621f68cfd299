package db

import (
	"context"
	"time"

	"articlehub/internal/models"
)

// InsertActivityLog stores an activity event. Re-delivering an event with the
// same EventID is a no-op.
func (d *DB) InsertActivityLog(ctx context.Context, event models.ActivityEvent) error {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	_, err := d.Pool.Exec(ctx, `
		INSERT INTO activity_logs (event_id, user_id, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO NOTHING
	`, event.EventID, event.UserID, event.Action, metadata, event.CreatedAt)
	return err
}

// ListActivityLogs returns one page of activity, newest first, and the total count.
func (d *DB) ListActivityLogs(ctx context.Context, page, limit int) ([]models.ActivityLog, int64, error) {
	var total int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT l.id, l.event_id, l.user_id, l.action, l.metadata, l.created_at, COALESCE(u.email, '')
		FROM activity_logs l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(&l.ID, &l.EventID, &l.UserID, &l.Action, &l.Metadata, &l.CreatedAt, &l.UserEmail); err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

// PruneActivityLogs deletes activity older than before and returns how many
// rows were removed.
func (d *DB) PruneActivityLogs(ctx context.Context, before time.Time) (int64, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM activity_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
