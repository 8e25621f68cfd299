package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/auth"
	"articlehub/internal/middleware"
	"articlehub/internal/models"
	"articlehub/internal/validation"
)

// ProfileHandler handles the current user's profile via JSON API.
type ProfileHandler struct {
	users    UserStore
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewProfileHandler creates a new API profile handler.
func NewProfileHandler(users UserStore, activity ActivityRecorder, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, activity: activity, logger: logger}
}

// Me returns the authenticated user.
func (h *ProfileHandler) Me(c fiber.Ctx) error {
	user := middleware.User(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, user)
}

// Update changes the user's name and email.
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	user := middleware.User(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Email    *string `json:"email"`
		Fullname *string `json:"fullname"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	email, fullname := user.Email, user.Fullname
	if body.Email != nil {
		email = validation.NormalizeEmail(*body.Email)
		if ok, msg := validation.ValidateEmail(email); !ok {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}
	if body.Fullname != nil {
		fullname = strings.TrimSpace(*body.Fullname)
	}

	updated, err := h.users.UpdateProfile(c.Context(), user.ID, fullname, email)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, updated)
}

// ChangePassword replaces the password after checking the current one.
// Accounts created through OIDC have no password and may set one directly.
func (h *ProfileHandler) ChangePassword(c fiber.Ctx) error {
	user := middleware.User(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidatePassword(body.NewPassword); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if user.HasPassword() {
		if err := auth.CheckPassword(user.PasswordHash, body.OldPassword); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return jsonError(c, fiber.StatusBadRequest, "current password is incorrect")
			}
			return handleError(c, h.logger, err)
		}
	}

	hash, err := auth.HashPassword(body.NewPassword)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	if err := h.users.UpdatePassword(c.Context(), user.ID, hash); err != nil {
		return handleError(c, h.logger, err)
	}

	h.activity.Record(&user.ID, models.ActivityChangePassword, nil)
	return jsonSuccess(c, fiber.Map{
		"message": "password updated",
	})
}
