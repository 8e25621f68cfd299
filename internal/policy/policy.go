// Package policy decides who may see and change articles and the comments
// and likes attached to them, and drives the article moderation state machine.
//
// Every function here is pure: no I/O, no shared state, safe for concurrent use.
package policy

import (
	"strings"
	"unicode/utf8"

	"articlehub/internal/models"
)

// Operation is the kind of action being checked.
type Operation int

const (
	// OpUnspecified represents an invalid operation.
	OpUnspecified Operation = iota
	// OpRead reads the article itself.
	OpRead
	// OpUpdate edits title, content or category.
	OpUpdate
	// OpDelete removes the article.
	OpDelete
	// OpApprove moves the article to approved.
	OpApprove
	// OpReject moves the article to rejected with a reason.
	OpReject
	// OpCommentRead lists the article's comments.
	OpCommentRead
	// OpCommentCreate posts a comment on the article.
	OpCommentCreate
	// OpLikeRead reads like counts or like status.
	OpLikeRead
	// OpLikeCreate likes or unlikes the article.
	OpLikeCreate
)

// Action is an operation plus its arguments. Only OpReject uses Reason.
type Action struct {
	Op     Operation
	Reason string
}

// Predefined actions.
var (
	Read          = Action{Op: OpRead}
	Update        = Action{Op: OpUpdate}
	Delete        = Action{Op: OpDelete}
	Approve       = Action{Op: OpApprove}
	CommentRead   = Action{Op: OpCommentRead}
	CommentCreate = Action{Op: OpCommentCreate}
	LikeRead      = Action{Op: OpLikeRead}
	LikeCreate    = Action{Op: OpLikeCreate}
)

// Reject builds a reject action with the given reason.
func Reject(reason string) Action {
	return Action{Op: OpReject, Reason: reason}
}

// MinRejectionReasonLength is the minimum number of characters in a rejection reason.
const MinRejectionReasonLength = 5

type capability uint8

const (
	capAuthenticated capability = 1 << iota
	capModerate
	capAdminister
)

// capabilities is the only place roles are mapped to what they may do.
var capabilities = map[models.Role]capability{
	models.RoleGuest:     0,
	models.RoleUser:      capAuthenticated,
	models.RoleModerator: capAuthenticated | capModerate,
	models.RoleAdmin:     capAuthenticated | capModerate | capAdminister,
}

func (r Requester) can(c capability) bool {
	return capabilities[r.EffectiveRole()]&c == c
}

// Decide returns whether requester may perform action on article. A nil
// article is treated as missing.
func Decide(action Action, article *models.Article, requester Requester) Decision {
	if article == nil {
		return notFound()
	}
	if d := checkRecord(article); !d.Allowed() {
		return d
	}

	switch action.Op {
	case OpRead:
		if canSee(article, requester) {
			return Allow
		}
		return notFound()
	case OpUpdate, OpDelete:
		if requester.Owns(article.AuthorID) || requester.can(capAdminister) {
			return Allow
		}
		return deny(DenyForbidden, msgNotOwner)
	case OpApprove:
		return decideModeration(requester)
	case OpReject:
		if d := decideModeration(requester); !d.Allowed() {
			return d
		}
		if _, err := ValidateRejectionReason(action.Reason); err != nil {
			return deny(DenyValidation, msgReasonTooShort)
		}
		return Allow
	case OpCommentRead, OpLikeRead:
		return decideDependent(article, requester, false)
	case OpCommentCreate, OpLikeCreate:
		return decideDependent(article, requester, true)
	default:
		return deny(DenyInvalid, "unsupported action")
	}
}

// checkRecord rejects articles missing mandatory fields. That is a defect in
// the caller or the store, not a policy denial.
func checkRecord(article *models.Article) Decision {
	if article.AuthorID <= 0 {
		return deny(DenyInvalid, "article has no author")
	}
	if !article.Status.Valid() {
		return deny(DenyInvalid, "article has unknown status "+string(article.Status))
	}
	return Allow
}

// canSee reports whether the article itself is visible to the requester.
func canSee(article *models.Article, requester Requester) bool {
	return article.Status == models.StatusApproved ||
		requester.Owns(article.AuthorID) ||
		requester.can(capModerate)
}

func decideModeration(requester Requester) Decision {
	if requester.can(capModerate) {
		return Allow
	}
	return deny(DenyForbidden, msgNotModerator)
}

// decideDependent gates comments and likes on the parent article. Parent
// approval is checked before anything about the dependent action itself.
func decideDependent(article *models.Article, requester Requester, create bool) Decision {
	if article.Status != models.StatusApproved {
		if canSee(article, requester) {
			return deny(DenyForbidden, msgNotApprovedYet)
		}
		return notFound()
	}
	if create && !requester.can(capAuthenticated) {
		return deny(DenyForbidden, msgAuthRequired)
	}
	return Allow
}

// ValidateRejectionReason trims reason and checks its length in characters.
func ValidateRejectionReason(reason string) (string, error) {
	trimmed := strings.TrimSpace(reason)
	if utf8.RuneCountInString(trimmed) < MinRejectionReasonLength {
		return "", ErrValidation
	}
	return trimmed, nil
}

// DecideCreate checks whether requester may submit a new article.
func DecideCreate(requester Requester) Decision {
	if requester.can(capAuthenticated) {
		return Allow
	}
	return deny(DenyForbidden, msgAuthRequired)
}

// DecideEngagementDelete checks whether requester may delete a comment or
// like created by creatorID.
func DecideEngagementDelete(requester Requester, creatorID int64) Decision {
	if requester.Owns(creatorID) || requester.can(capAdminister) {
		return Allow
	}
	return deny(DenyForbidden, msgNotEngagementOwner)
}

// DecideCommentModeration checks whether requester may toggle a comment's
// approval flag.
func DecideCommentModeration(requester Requester) Decision {
	return decideModeration(requester)
}

// DecideModerationQueue checks access to cross-author listings such as the
// moderation list and the activity feed.
func DecideModerationQueue(requester Requester) Decision {
	return decideModeration(requester)
}

// DecideAdmin checks access to site administration.
func DecideAdmin(requester Requester) Decision {
	if requester.can(capAdminister) {
		return Allow
	}
	return deny(DenyForbidden, msgNotAdmin)
}

var operationNames = map[Operation]string{
	OpUnspecified:   "unspecified",
	OpRead:          "read",
	OpUpdate:        "update",
	OpDelete:        "delete",
	OpApprove:       "approve",
	OpReject:        "reject",
	OpCommentRead:   "comment_read",
	OpCommentCreate: "comment_create",
	OpLikeRead:      "like_read",
	OpLikeCreate:    "like_create",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "unknown"
}
