package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakeStore) PruneActivityLogs(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, before)
	return 1, f.err
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestActivityPruner_UsesRetentionCutoff(t *testing.T) {
	store := &fakeStore{}
	p := NewActivityPruner(store, time.Hour, 24*time.Hour)
	fixed := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	p.pruneOnce(context.Background())

	want := fixed.Add(-24 * time.Hour)
	if store.calls() != 1 || !store.cutoffs[0].Equal(want) {
		t.Errorf("cutoffs = %v, want [%v]", store.cutoffs, want)
	}
}

func TestActivityPruner_StopsOnCancel(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	p := NewActivityPruner(store, 10*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.calls() < 2 {
		select {
		case <-deadline:
			t.Fatalf("pruner ran %d times, want at least 2", store.calls())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}
