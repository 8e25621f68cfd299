package policy

import (
	"fmt"

	"articlehub/internal/models"
)

// Transition is the result of a moderation action: the new status and the
// matching rejection reason. Reason is non-nil exactly when Status is rejected.
type Transition struct {
	Status models.ArticleStatus
	Reason *string
}

// Apply computes the state an article moves to under a moderation action.
// Both approve and reject are allowed from any state; the new state
// overwrites the old one. Apply does not check authorization; call Decide first.
func Apply(action Action) (Transition, error) {
	switch action.Op {
	case OpApprove:
		return Transition{Status: models.StatusApproved}, nil
	case OpReject:
		reason, err := ValidateRejectionReason(action.Reason)
		if err != nil {
			return Transition{}, &DenialError{Denial: DenyValidation, Message: msgReasonTooShort}
		}
		return Transition{Status: models.StatusRejected, Reason: &reason}, nil
	default:
		return Transition{}, fmt.Errorf("operation %d is not a moderation action", action.Op)
	}
}

// ApplyTo copies the transition onto an article.
func (t Transition) ApplyTo(article *models.Article) {
	article.Status = t.Status
	if t.Reason == nil {
		article.RejectionReason = nil
		return
	}
	reason := *t.Reason
	article.RejectionReason = &reason
}
