package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity action constants
const (
	ActivityLogin           = "LOGIN"
	ActivityRegister        = "REGISTER"
	ActivityChangePassword  = "CHANGE_PASSWORD"
	ActivityCreateArticle   = "CREATE_ARTICLE"
	ActivityUpdateArticle   = "UPDATE_ARTICLE"
	ActivityDeleteArticle   = "DELETE_ARTICLE"
	ActivityApproveArticle  = "APPROVE_ARTICLE"
	ActivityRejectArticle   = "REJECT_ARTICLE"
	ActivityCreateComment   = "CREATE_COMMENT"
	ActivityDeleteComment   = "DELETE_COMMENT"
	ActivityModerateComment = "MODERATE_COMMENT"
	ActivityLikeArticle     = "LIKE_ARTICLE"
	ActivityUnlikeArticle   = "UNLIKE_ARTICLE"
	ActivityChangeUserRole  = "CHANGE_USER_ROLE"
	ActivityChangeUserState = "CHANGE_USER_STATUS"
)

// ActivityEvent is a single audit entry. EventID is assigned when the event
// is recorded and lets downstream consumers deduplicate.
type ActivityEvent struct {
	EventID   uuid.UUID      `json:"event_id"`
	UserID    *int64         `json:"user_id"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// ActivityLog is a stored activity event.
type ActivityLog struct {
	ID        int64          `json:"id"`
	EventID   uuid.UUID      `json:"event_id"`
	UserID    *int64         `json:"user_id"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`

	UserEmail string `json:"email,omitempty"`
}
