package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/auth"
	"articlehub/internal/db"
	"articlehub/internal/models"
	"articlehub/internal/policy"
)

const (
	userKey      = "user"
	requesterKey = "requester"
)

var (
	errNoToken  = errors.New("authentication required")
	errDisabled = errors.New("account is disabled")
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLoader fetches the account a token was issued for.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware handles user authentication via bearer tokens.
type AuthMiddleware struct {
	tokens TokenVerifier
	users  UserLoader
	logger *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokens TokenVerifier, users UserLoader, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// RequireAuth ensures the request carries a valid token for an active account.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return deny(c, fiber.StatusUnauthorized, errNoToken.Error())
	}
	return m.authenticate(c, token)
}

// OptionalAuth loads the user if a token is present. Requests without a
// token continue as guests; a token that fails verification is rejected.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		c.Locals(requesterKey, policy.Anonymous())
		return c.Next()
	}
	return m.authenticate(c, token)
}

func (m *AuthMiddleware) authenticate(c fiber.Ctx, token string) error {
	user, err := m.resolve(c.Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, db.ErrUserNotFound):
		return deny(c, fiber.StatusUnauthorized, auth.ErrInvalidToken.Error())
	case errors.Is(err, errDisabled):
		return deny(c, fiber.StatusUnauthorized, err.Error())
	default:
		m.logger.Error("failed to load token user", "error", err)
		return deny(c, fiber.StatusInternalServerError, "internal server error")
	}

	c.Locals(userKey, user)
	c.Locals(requesterKey, policy.RequesterFor(user))
	return c.Next()
}

// resolve verifies the token and loads its subject. Role and active flag
// come from the store so that changes apply before the token expires.
func (m *AuthMiddleware) resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	id, ok := policy.NormalizeID(claims.Subject)
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	user, err := m.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errDisabled
	}
	return user, nil
}

// Require admits requests whose requester passes check. Use after RequireAuth.
func Require(check func(policy.Requester) policy.Decision) fiber.Handler {
	return func(c fiber.Ctx) error {
		if d := check(Requester(c)); !d.Allowed() {
			return deny(c, fiber.StatusForbidden, d.Message)
		}
		return c.Next()
	}
}

// Requester returns the requester resolved for this request, a guest if none.
func Requester(c fiber.Ctx) policy.Requester {
	if r, ok := c.Locals(requesterKey).(policy.Requester); ok {
		return r
	}
	return policy.Anonymous()
}

// User returns the authenticated account, or nil for guests.
func User(c fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func bearerToken(c fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func deny(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
