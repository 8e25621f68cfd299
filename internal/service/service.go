// Package service orchestrates article and engagement operations: it loads
// records, asks the visibility policy for a decision, writes through the
// store and records activity once a write has succeeded.
package service

import (
	"log/slog"

	"articlehub/internal/metrics"
	"articlehub/internal/models"
	"articlehub/internal/policy"
)

func decide(action policy.Action, article *models.Article, requester policy.Requester) policy.Decision {
	d := policy.Decide(action, article, requester)
	metrics.RecordDecision(action.Op.String(), d.Denial.String())
	if d.Denial == policy.DenyInvalid {
		slog.Error("invalid article record", "operation", action.Op.String(), "reason", d.Message)
	}
	return d
}

func notFound(msg string) error {
	return &policy.DenialError{Denial: policy.DenyNotFound, Message: msg}
}

// actorID returns the requester's id for activity records, nil if anonymous.
func actorID(requester policy.Requester) *int64 {
	id, ok := requester.UserID()
	if !ok {
		return nil
	}
	return &id
}

type noopRecorder struct{}

func (noopRecorder) Record(*int64, string, map[string]any) {}

type noopNotifier struct{}

func (noopNotifier) ArticleReviewed(*models.Article) {}
