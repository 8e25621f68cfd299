package policy

import (
	"errors"
	"sync"
	"testing"

	"articlehub/internal/models"
)

const ownerID = 5

var allStatuses = []models.ArticleStatus{models.StatusPending, models.StatusApproved, models.StatusRejected}

func article(status models.ArticleStatus) *models.Article {
	a := &models.Article{ID: 1, AuthorID: ownerID, Status: status}
	if status == models.StatusRejected {
		reason := "off topic"
		a.RejectionReason = &reason
	}
	return a
}

var (
	guest     = Anonymous()
	owner     = Requester{ID: "5", Role: models.RoleUser}
	stranger  = Requester{ID: "6", Role: models.RoleUser}
	moderator = Requester{ID: "7", Role: models.RoleModerator}
	admin     = Requester{ID: "8", Role: models.RoleAdmin}
)

func TestDecide_ReadApprovedAllowsEveryone(t *testing.T) {
	requesters := map[string]Requester{
		"guest":     guest,
		"owner":     owner,
		"stranger":  stranger,
		"moderator": moderator,
		"admin":     admin,
		"anonymous claiming admin": {Role: models.RoleAdmin},
	}
	for name, r := range requesters {
		t.Run(name, func(t *testing.T) {
			if d := Decide(Read, article(models.StatusApproved), r); !d.Allowed() {
				t.Errorf("Decide(read, approved) = %+v, want allow", d)
			}
		})
	}
}

func TestDecide_ReadUnapproved(t *testing.T) {
	tests := []struct {
		name      string
		requester Requester
		want      Denial
	}{
		{"owner", owner, DenyNone},
		{"owner with padded id", Requester{ID: " 05 ", Role: models.RoleUser}, DenyNone},
		{"moderator", moderator, DenyNone},
		{"admin", admin, DenyNone},
		{"guest", guest, DenyNotFound},
		{"stranger", stranger, DenyNotFound},
		{"anonymous claiming moderator", Requester{Role: models.RoleModerator}, DenyNotFound},
		{"unparsable id", Requester{ID: "abc", Role: models.RoleUser}, DenyNotFound},
	}

	for _, status := range []models.ArticleStatus{models.StatusPending, models.StatusRejected} {
		for _, tt := range tests {
			t.Run(string(status)+"/"+tt.name, func(t *testing.T) {
				d := Decide(Read, article(status), tt.requester)
				if d.Denial != tt.want {
					t.Errorf("Decide(read, %s) denial = %v, want %v", status, d.Denial, tt.want)
				}
			})
		}
	}
}

func TestDecide_HiddenArticleLooksMissing(t *testing.T) {
	hidden := Decide(Read, article(models.StatusPending), stranger)
	missing := Decide(Read, nil, stranger)

	if hidden != missing {
		t.Errorf("hidden = %+v, missing = %+v; want identical decisions", hidden, missing)
	}
	if !errors.Is(hidden.Err(), ErrNotFound) {
		t.Errorf("hidden.Err() = %v, want ErrNotFound", hidden.Err())
	}
}

func TestDecide_OwnerCanAlwaysRead(t *testing.T) {
	for _, status := range allStatuses {
		if d := Decide(Read, article(status), owner); !d.Allowed() {
			t.Errorf("Decide(read, %s, owner) = %+v, want allow", status, d)
		}
	}
}

func TestDecide_Write(t *testing.T) {
	tests := []struct {
		name      string
		requester Requester
		want      Denial
	}{
		{"owner", owner, DenyNone},
		{"owner by string id", Requester{ID: "5", Role: models.RoleUser}, DenyNone},
		{"admin", admin, DenyNone},
		{"moderator not owner", moderator, DenyForbidden},
		{"stranger", stranger, DenyForbidden},
		{"guest", guest, DenyForbidden},
	}

	for _, action := range []Action{Update, Delete} {
		for _, status := range allStatuses {
			for _, tt := range tests {
				t.Run(string(status)+"/"+tt.name, func(t *testing.T) {
					d := Decide(action, article(status), tt.requester)
					if d.Denial != tt.want {
						t.Errorf("Decide(%v, %s) denial = %v, want %v", action.Op, status, d.Denial, tt.want)
					}
				})
			}
		}
	}
}

func TestDecide_WriteMissingArticle(t *testing.T) {
	d := Decide(Update, nil, admin)
	if !errors.Is(d.Err(), ErrNotFound) {
		t.Errorf("Decide(update, nil) = %+v, want not found", d)
	}
}

func TestDecide_Moderation(t *testing.T) {
	tests := []struct {
		name      string
		action    Action
		requester Requester
		want      Denial
	}{
		{"moderator approves", Approve, moderator, DenyNone},
		{"admin approves", Approve, admin, DenyNone},
		{"owner cannot approve", Approve, owner, DenyForbidden},
		{"guest cannot approve", Approve, guest, DenyForbidden},
		{"unparsable id claiming moderator cannot approve", Approve, Requester{ID: "mod-abc", Role: models.RoleModerator}, DenyForbidden},
		{"unparsable id claiming admin cannot reject", Reject("spam content"), Requester{ID: "abc", Role: models.RoleAdmin}, DenyForbidden},
		{"moderator rejects", Reject("spam content"), moderator, DenyNone},
		{"admin rejects", Reject("spam content"), admin, DenyNone},
		{"short reason", Reject("spam"), moderator, DenyValidation},
		{"empty reason", Reject(""), moderator, DenyValidation},
		{"whitespace padded short reason", Reject("   abc    "), moderator, DenyValidation},
		{"exactly five characters", Reject("12345"), moderator, DenyNone},
		{"multibyte characters counted once", Reject("héllo"), moderator, DenyNone},
		{"user with short reason is forbidden first", Reject("x"), stranger, DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.action, article(models.StatusPending), tt.requester)
			if d.Denial != tt.want {
				t.Errorf("denial = %v (%q), want %v", d.Denial, d.Message, tt.want)
			}
		})
	}
}

func TestDecide_DependentResources(t *testing.T) {
	tests := []struct {
		name      string
		status    models.ArticleStatus
		action    Action
		requester Requester
		want      Denial
	}{
		{"guest reads comments of approved", models.StatusApproved, CommentRead, guest, DenyNone},
		{"guest cannot comment", models.StatusApproved, CommentCreate, guest, DenyForbidden},
		{"user comments on approved", models.StatusApproved, CommentCreate, stranger, DenyNone},
		{"guest reads likes of approved", models.StatusApproved, LikeRead, guest, DenyNone},
		{"user likes approved", models.StatusApproved, LikeCreate, stranger, DenyNone},
		{"guest reads comments of pending", models.StatusPending, CommentRead, guest, DenyNotFound},
		{"stranger likes pending", models.StatusPending, LikeCreate, stranger, DenyNotFound},
		{"owner reads comments of pending", models.StatusPending, CommentRead, owner, DenyForbidden},
		{"owner comments on rejected", models.StatusRejected, CommentCreate, owner, DenyForbidden},
		{"moderator likes pending", models.StatusPending, LikeCreate, moderator, DenyForbidden},
		{"admin reads likes of rejected", models.StatusRejected, LikeRead, admin, DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.action, article(tt.status), tt.requester)
			if d.Denial != tt.want {
				t.Errorf("denial = %v (%q), want %v", d.Denial, d.Message, tt.want)
			}
		})
	}
}

func TestDecide_DependentMissingArticle(t *testing.T) {
	for _, action := range []Action{CommentRead, CommentCreate, LikeRead, LikeCreate} {
		if d := Decide(action, nil, admin); d.Denial != DenyNotFound {
			t.Errorf("Decide(%v, nil) denial = %v, want not found", action.Op, d.Denial)
		}
	}
}

func TestDecide_OwnerSeesNotApprovedMessage(t *testing.T) {
	d := Decide(CommentRead, article(models.StatusPending), owner)
	if !errors.Is(d.Err(), ErrForbidden) {
		t.Fatalf("Err() = %v, want ErrForbidden", d.Err())
	}
	if d.Message != msgNotApprovedYet {
		t.Errorf("Message = %q, want %q", d.Message, msgNotApprovedYet)
	}
}

func TestDecide_InvalidRecord(t *testing.T) {
	tests := []struct {
		name    string
		article *models.Article
		action  Action
	}{
		{"no author", &models.Article{ID: 1, Status: models.StatusApproved}, Read},
		{"unknown status", &models.Article{ID: 1, AuthorID: 5, Status: "archived"}, Read},
		{"unspecified action", article(models.StatusApproved), Action{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.action, tt.article, admin)
			if !errors.Is(d.Err(), ErrInvalidArticle) {
				t.Errorf("Err() = %v, want ErrInvalidArticle", d.Err())
			}
		})
	}
}

func TestDecide_Deterministic(t *testing.T) {
	a := article(models.StatusPending)
	first := Decide(CommentRead, a, owner)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Decide(CommentRead, a, owner); got != first {
				t.Errorf("Decide() = %+v, want %+v", got, first)
			}
		}()
	}
	wg.Wait()
}

func TestDecideHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  Decision
		want Denial
	}{
		{"guest cannot create", DecideCreate(guest), DenyForbidden},
		{"user creates", DecideCreate(stranger), DenyNone},
		{"creator deletes comment", DecideEngagementDelete(stranger, 6), DenyNone},
		{"creator by numeric string", DecideEngagementDelete(Requester{ID: "006", Role: models.RoleUser}, 6), DenyNone},
		{"other user cannot delete comment", DecideEngagementDelete(owner, 6), DenyForbidden},
		{"moderator cannot delete others' comments", DecideEngagementDelete(moderator, 6), DenyForbidden},
		{"admin deletes any comment", DecideEngagementDelete(admin, 6), DenyNone},
		{"moderator moderates comments", DecideCommentModeration(moderator), DenyNone},
		{"user cannot moderate comments", DecideCommentModeration(owner), DenyForbidden},
		{"moderator sees queue", DecideModerationQueue(moderator), DenyNone},
		{"guest cannot see queue", DecideModerationQueue(guest), DenyForbidden},
		{"admin administers", DecideAdmin(admin), DenyNone},
		{"moderator cannot administer", DecideAdmin(moderator), DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Denial != tt.want {
				t.Errorf("denial = %v, want %v", tt.got.Denial, tt.want)
			}
		})
	}
}

func TestDecision_Err(t *testing.T) {
	if err := Allow.Err(); err != nil {
		t.Errorf("Allow.Err() = %v, want nil", err)
	}

	err := deny(DenyValidation, "bad input").Err()
	if !errors.Is(err, ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false")
	}
	if errors.Is(err, ErrForbidden) {
		t.Errorf("validation error matched ErrForbidden")
	}
	var denial *DenialError
	if !errors.As(err, &denial) || denial.Message != "bad input" {
		t.Errorf("errors.As() = %+v, want message %q", denial, "bad input")
	}
}
