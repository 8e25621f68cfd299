package policy

import "errors"

// Denial classifies why an action was refused.
type Denial int

const (
	// DenyNone means the action is allowed.
	DenyNone Denial = iota
	// DenyNotFound hides the resource: it is missing or must not be revealed.
	DenyNotFound
	// DenyForbidden means the requester knows the resource but may not act on it.
	DenyForbidden
	// DenyValidation means the input is malformed, independent of authorization.
	DenyValidation
	// DenyInvalid marks a defect: the article record itself is unusable.
	DenyInvalid
)

func (d Denial) String() string {
	switch d {
	case DenyNone:
		return "allow"
	case DenyNotFound:
		return "not_found"
	case DenyForbidden:
		return "forbidden"
	case DenyValidation:
		return "validation"
	case DenyInvalid:
		return "invalid"
	}
	return "unknown"
}

// Sentinel errors matched by DenialError.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("validation failed")
	ErrInvalidArticle = errors.New("invalid article record")
)

// Decision is the outcome of a policy check. The zero value allows.
type Decision struct {
	Denial  Denial
	Message string
}

// Allow is the allowing decision.
var Allow = Decision{}

// Allowed reports whether the action may proceed.
func (d Decision) Allowed() bool {
	return d.Denial == DenyNone
}

// Err returns nil for an allowing decision and a *DenialError otherwise.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return &DenialError{Denial: d.Denial, Message: d.Message}
}

// DenialError carries a denial through error returns.
type DenialError struct {
	Denial  Denial
	Message string
}

func (e *DenialError) Error() string {
	return e.Message
}

// Is matches the sentinel for the denial kind.
func (e *DenialError) Is(target error) bool {
	switch e.Denial {
	case DenyNotFound:
		return target == ErrNotFound
	case DenyForbidden:
		return target == ErrForbidden
	case DenyValidation:
		return target == ErrValidation
	case DenyInvalid:
		return target == ErrInvalidArticle
	}
	return false
}

// Messages shown to callers. The not-found message is shared by missing and
// hidden articles and must stay that way.
const (
	msgArticleNotFound    = "article not found"
	msgNotOwner           = "you do not have permission to modify this article"
	msgNotModerator       = "moderator access required"
	msgNotAdmin           = "admin access required"
	msgAuthRequired       = "authentication required"
	msgNotApprovedYet     = "article is not approved yet"
	msgReasonTooShort     = "rejection reason must be at least 5 characters"
	msgNotEngagementOwner = "you can only delete your own entries"
)

func deny(kind Denial, msg string) Decision {
	return Decision{Denial: kind, Message: msg}
}

func notFound() Decision {
	return deny(DenyNotFound, msgArticleNotFound)
}
