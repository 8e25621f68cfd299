package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/auth"
	"articlehub/internal/db"
	"articlehub/internal/models"
	"articlehub/internal/validation"
)

const msgInvalidCredentials = "invalid credentials"

// AuthHandler handles password registration and login via JSON API.
type AuthHandler struct {
	users    UserStore
	tokens   TokenIssuer
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewAuthHandler creates a new API auth handler.
func NewAuthHandler(users UserStore, tokens TokenIssuer, activity ActivityRecorder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, activity: activity, logger: logger}
}

// Register creates a password account with the user role.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Fullname string `json:"fullname"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Email = validation.NormalizeEmail(body.Email)
	if ok, msg := validation.ValidateEmail(body.Email); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if ok, msg := validation.ValidatePassword(body.Password); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	user := &models.User{
		Email:        body.Email,
		PasswordHash: hash,
		Fullname:     strings.TrimSpace(body.Fullname),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := h.users.CreateUser(c.Context(), user); err != nil {
		return handleError(c, h.logger, err)
	}

	h.activity.Record(&user.ID, models.ActivityRegister, map[string]any{"email": user.Email})
	return jsonCreated(c, user)
}

// Login exchanges email and password for an access token.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := h.users.GetUserByEmail(c.Context(), validation.NormalizeEmail(body.Email))
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, msgInvalidCredentials)
		}
		return handleError(c, h.logger, err)
	}
	if !user.IsActive {
		return jsonError(c, fiber.StatusUnauthorized, msgInvalidCredentials)
	}
	if err := auth.CheckPassword(user.PasswordHash, body.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return jsonError(c, fiber.StatusUnauthorized, msgInvalidCredentials)
		}
		return handleError(c, h.logger, err)
	}

	return h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c fiber.Ctx, user *models.User) error {
	token, err := h.tokens.Issue(user)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	h.activity.Record(&user.ID, models.ActivityLogin, map[string]any{"email": user.Email})
	return jsonSuccess(c, models.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
		User:      user,
	})
}
