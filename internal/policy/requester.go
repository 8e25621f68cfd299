package policy

import (
	"strconv"
	"strings"

	"articlehub/internal/models"
)

// Requester is the identity a decision is made for. It is passed explicitly
// into every check; nothing is read from request-scoped state.
type Requester struct {
	ID   string // empty for anonymous callers
	Role models.Role
}

// Anonymous returns a guest requester.
func Anonymous() Requester {
	return Requester{Role: models.RoleGuest}
}

// RequesterFor builds a requester from a stored account.
func RequesterFor(u *models.User) Requester {
	if u == nil {
		return Anonymous()
	}
	return Requester{ID: strconv.FormatInt(u.ID, 10), Role: u.Role}
}

// Authenticated reports whether the requester carries a usable identity.
// An id that does not normalize to an account id counts as anonymous.
func (r Requester) Authenticated() bool {
	_, ok := NormalizeID(r.ID)
	return ok
}

// EffectiveRole is the role checks are made against. A requester without an
// identity is always a guest, whatever role it claims.
func (r Requester) EffectiveRole() models.Role {
	if !r.Authenticated() || !r.Role.Valid() {
		return models.RoleGuest
	}
	return r.Role
}

// UserID returns the normalized numeric identity of the requester.
func (r Requester) UserID() (int64, bool) {
	return NormalizeID(r.ID)
}

// Owns reports whether the requester is the account identified by ownerID.
func (r Requester) Owns(ownerID int64) bool {
	id, ok := r.UserID()
	return ok && ownerID > 0 && id == ownerID
}

// NormalizeID parses an identity into its numeric form so that "5", " 5" and
// "05" all compare equal to 5. Non-numeric or non-positive ids are rejected.
func NormalizeID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
