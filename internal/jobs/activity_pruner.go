package jobs

import (
	"context"
	"log/slog"
	"time"
)

// ActivityStore deletes activity rows older than a cutoff.
type ActivityStore interface {
	PruneActivityLogs(ctx context.Context, before time.Time) (int64, error)
}

// ActivityPruner periodically removes activity logs past their retention.
type ActivityPruner struct {
	store     ActivityStore
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewActivityPruner creates a new pruner.
func NewActivityPruner(store ActivityStore, interval, retention time.Duration) *ActivityPruner {
	return &ActivityPruner{
		store:     store,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start runs the prune loop until ctx is cancelled.
func (p *ActivityPruner) Start(ctx context.Context) {
	slog.Info("activity pruner started", "interval", p.interval, "retention", p.retention)

	// Run immediately on start
	p.pruneOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("activity pruner stopped")
			return
		case <-ticker.C:
			p.pruneOnce(ctx)
		}
	}
}

func (p *ActivityPruner) pruneOnce(ctx context.Context) {
	cutoff := p.now().Add(-p.retention)

	n, err := p.store.PruneActivityLogs(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("failed to prune activity logs", "error", err)
		}
		return
	}
	if n > 0 {
		slog.Info("pruned activity logs", "deleted", n, "before", cutoff)
	}
}
