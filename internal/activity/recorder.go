// Package activity records user actions for the audit feed. Recording is
// best-effort: events are delivered in the background and failures are
// logged and counted, never returned to the caller.
package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"articlehub/internal/metrics"
	"articlehub/internal/models"
)

// Sink receives activity events.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event models.ActivityEvent) error
}

// Recorder fans activity events out to its sinks.
type Recorder struct {
	sinks   []Sink
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewRecorder creates a recorder. Each delivery gets its own context bounded
// by timeout.
func NewRecorder(logger *slog.Logger, timeout time.Duration, sinks ...Sink) *Recorder {
	return &Recorder{
		sinks:   sinks,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Record queues an event for delivery and returns immediately. userID is nil
// for anonymous actions.
func (r *Recorder) Record(userID *int64, action string, metadata map[string]any) {
	event := models.ActivityEvent{
		EventID:   uuid.New(),
		UserID:    userID,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: r.now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warn("activity recorder closed, dropping event", "action", action)
		return
	}

	for _, sink := range r.sinks {
		r.wg.Add(1)
		go r.deliver(sink, event)
	}
}

func (r *Recorder) deliver(sink Sink, event models.ActivityEvent) {
	defer r.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	err := sink.Deliver(ctx, event)
	metrics.RecordActivity(sink.Name(), err)
	if err != nil {
		r.logger.Error("failed to record activity",
			"sink", sink.Name(),
			"action", event.Action,
			"event_id", event.EventID,
			"error", err,
		)
	}
}

// Close stops accepting events and waits for in-flight deliveries or ctx.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
