package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"articlehub/internal/models"
)

type fakeCounter struct {
	counts []models.StatusCount
	err    error
}

func (f fakeCounter) CountArticlesByStatus(context.Context) ([]models.StatusCount, error) {
	return f.counts, f.err
}

func TestArticleCollector(t *testing.T) {
	c := NewArticleCollector(fakeCounter{counts: []models.StatusCount{
		{Status: models.StatusPending, Count: 3},
		{Status: models.StatusApproved, Count: 10},
	}})

	expected := `
# HELP articlehub_articles Number of articles by moderation status
# TYPE articlehub_articles gauge
articlehub_articles{status="approved"} 10
articlehub_articles{status="pending"} 3
articlehub_articles{status="rejected"} 0
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Errorf("CollectAndCompare() error = %v", err)
	}
}

func TestArticleCollector_StoreError(t *testing.T) {
	c := NewArticleCollector(fakeCounter{err: errors.New("db down")})

	if n := testutil.CollectAndCount(c); n != 0 {
		t.Errorf("CollectAndCount() = %d, want 0", n)
	}
}

func TestRecordActivity(t *testing.T) {
	before := testutil.ToFloat64(activityEvents.WithLabelValues("test", "dropped"))

	RecordActivity("test", errors.New("boom"))
	RecordActivity("test", nil)

	if got := testutil.ToFloat64(activityEvents.WithLabelValues("test", "dropped")); got != before+1 {
		t.Errorf("dropped = %v, want %v", got, before+1)
	}
}

func TestRecordDecision(t *testing.T) {
	RecordDecision("read", "not_found")

	if got := testutil.ToFloat64(policyDecisions.WithLabelValues("read", "not_found")); got < 1 {
		t.Errorf("decisions = %v, want >= 1", got)
	}
}
