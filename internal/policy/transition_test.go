package policy

import (
	"errors"
	"testing"

	"articlehub/internal/models"
)

func TestApply_ApproveClearsReason(t *testing.T) {
	a := article(models.StatusRejected)

	tr, err := Apply(Approve)
	if err != nil {
		t.Fatalf("Apply(approve) error = %v", err)
	}
	tr.ApplyTo(a)

	if a.Status != models.StatusApproved {
		t.Errorf("Status = %q, want %q", a.Status, models.StatusApproved)
	}
	if a.RejectionReason != nil {
		t.Errorf("RejectionReason = %q, want nil", *a.RejectionReason)
	}
}

func TestApply_ApproveIsIdempotent(t *testing.T) {
	once := article(models.StatusPending)
	twice := article(models.StatusPending)

	tr, _ := Apply(Approve)
	tr.ApplyTo(once)
	tr.ApplyTo(twice)
	tr.ApplyTo(twice)

	if once.Status != twice.Status || (once.RejectionReason == nil) != (twice.RejectionReason == nil) {
		t.Errorf("once = %+v, twice = %+v; want same state", once, twice)
	}
}

func TestApply_Reject(t *testing.T) {
	a := article(models.StatusApproved)

	tr, err := Apply(Reject("  needs sources  "))
	if err != nil {
		t.Fatalf("Apply(reject) error = %v", err)
	}
	tr.ApplyTo(a)

	if a.Status != models.StatusRejected {
		t.Errorf("Status = %q, want %q", a.Status, models.StatusRejected)
	}
	if a.RejectionReason == nil || *a.RejectionReason != "needs sources" {
		t.Errorf("RejectionReason = %v, want %q", a.RejectionReason, "needs sources")
	}
}

func TestApply_RejectOverwritesReason(t *testing.T) {
	a := article(models.StatusRejected)

	tr, _ := Apply(Reject("second reason"))
	tr.ApplyTo(a)

	if *a.RejectionReason != "second reason" {
		t.Errorf("RejectionReason = %q, want %q", *a.RejectionReason, "second reason")
	}
}

func TestApply_ShortReasonLeavesArticleUnchanged(t *testing.T) {
	a := article(models.StatusPending)

	if d := Decide(Reject("no"), a, moderator); d.Denial != DenyValidation {
		t.Fatalf("Decide(reject) denial = %v, want validation", d.Denial)
	}
	_, err := Apply(Reject("no"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Apply(reject) error = %v, want ErrValidation", err)
	}
	if a.Status != models.StatusPending || a.RejectionReason != nil {
		t.Errorf("article changed to %+v", a)
	}
}

func TestApply_NonModerationAction(t *testing.T) {
	if _, err := Apply(Update); err == nil {
		t.Error("Apply(update) error = nil, want error")
	}
}

func TestTransition_ReasonInvariant(t *testing.T) {
	for _, action := range []Action{Approve, Reject("valid reason")} {
		tr, err := Apply(action)
		if err != nil {
			t.Fatalf("Apply(%v) error = %v", action.Op, err)
		}
		if (tr.Status == models.StatusRejected) != (tr.Reason != nil) {
			t.Errorf("Apply(%v) = %+v violates reason invariant", action.Op, tr)
		}
	}
}
