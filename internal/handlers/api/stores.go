package api

import (
	"context"
	"time"

	"articlehub/internal/models"
)

// UserStore is the account storage used by auth, profile and admin handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, fullname, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateUserRole(ctx context.Context, id int64, role models.Role) error
	SetUserActive(ctx context.Context, id int64, active bool) error
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error)
}

// CategoryStore is the category storage.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// AdminStore serves the dashboard and the activity feed.
type AdminStore interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ListActivityLogs(ctx context.Context, page, limit int) ([]models.ActivityLog, int64, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	TTL() time.Duration
}

// ActivityRecorder records audit events in the background.
type ActivityRecorder interface {
	Record(userID *int64, action string, metadata map[string]any)
}
