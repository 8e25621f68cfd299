package activity

import (
	"context"

	"articlehub/internal/models"
)

// LogStore persists activity events.
type LogStore interface {
	InsertActivityLog(ctx context.Context, event models.ActivityEvent) error
}

// DBSink writes events to the activity_logs table.
type DBSink struct {
	store LogStore
}

// NewDBSink creates a sink backed by store.
func NewDBSink(store LogStore) *DBSink {
	return &DBSink{store: store}
}

func (s *DBSink) Name() string { return "postgres" }

func (s *DBSink) Deliver(ctx context.Context, event models.ActivityEvent) error {
	return s.store.InsertActivityLog(ctx, event)
}
