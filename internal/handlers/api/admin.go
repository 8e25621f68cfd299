package api

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/middleware"
	"articlehub/internal/models"
	"articlehub/internal/service"
	"articlehub/internal/validation"
)

// AdminHandler handles the admin dashboard, user management and the
// activity feed via JSON API.
type AdminHandler struct {
	store    AdminStore
	users    UserStore
	articles *service.ArticleService
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewAdminHandler creates a new API admin handler.
func NewAdminHandler(store AdminStore, users UserStore, articles *service.ArticleService, activity ActivityRecorder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: store, users: users, articles: articles, activity: activity, logger: logger}
}

// Stats returns the dashboard counters.
func (h *AdminHandler) Stats(c fiber.Ctx) error {
	stats, err := h.store.GetDashboardStats(c.Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, stats)
}

// Users returns a page of accounts.
func (h *AdminHandler) Users(c fiber.Ctx) error {
	page, limit := validation.ParsePagination(c.Query("page"), c.Query("limit"))

	users, total, err := h.users.ListUsers(c.Context(), page, limit)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, models.NewPage(page, limit, total, users))
}

// PendingArticles returns the moderation queue.
func (h *AdminHandler) PendingArticles(c fiber.Ctx) error {
	filter, ok := listFilter(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category")
	}

	page, err := h.articles.ListPending(c.Context(), middleware.Requester(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, page)
}

// ActivityLogs returns a page of the activity log, newest first.
func (h *AdminHandler) ActivityLogs(c fiber.Ctx) error {
	page, limit := validation.ParsePagination(c.Query("page"), c.Query("limit"))

	logs, total, err := h.store.ListActivityLogs(c.Context(), page, limit)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, models.NewPage(page, limit, total, logs))
}

// SetUserStatus activates or deactivates an account. Admins cannot change
// their own status.
func (h *AdminHandler) SetUserStatus(c fiber.Ctx) error {
	target, ok := h.otherUser(c)
	if !ok {
		return nil
	}

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.IsActive == nil {
		return jsonError(c, fiber.StatusBadRequest, "is_active is required")
	}

	if err := h.users.SetUserActive(c.Context(), target, *body.IsActive); err != nil {
		return handleError(c, h.logger, err)
	}

	h.activity.Record(&middleware.User(c).ID, models.ActivityChangeUserState, map[string]any{
		"target_user_id": target,
		"is_active":      *body.IsActive,
	})
	return h.respondWithUser(c, target)
}

// SetUserRole changes an account's role. Admins cannot change their own role.
func (h *AdminHandler) SetUserRole(c fiber.Ctx) error {
	target, ok := h.otherUser(c)
	if !ok {
		return nil
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	role, err := models.ParseRole(body.Role)
	if err != nil || !role.Assignable() {
		return jsonError(c, fiber.StatusBadRequest, "role must be one of user, moderator, admin")
	}

	if err := h.users.UpdateUserRole(c.Context(), target, role); err != nil {
		return handleError(c, h.logger, err)
	}

	h.activity.Record(&middleware.User(c).ID, models.ActivityChangeUserRole, map[string]any{
		"target_user_id": target,
		"role":           role.String(),
	})
	return h.respondWithUser(c, target)
}

// otherUser parses the target user id and rejects the admin's own account.
// On failure the response has already been written.
func (h *AdminHandler) otherUser(c fiber.Ctx) (int64, bool) {
	target, ok := paramID(c, "id")
	if !ok {
		_ = jsonError(c, fiber.StatusBadRequest, "invalid user id")
		return 0, false
	}
	current := middleware.User(c)
	if current == nil {
		_ = jsonError(c, fiber.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	if current.ID == target {
		_ = jsonError(c, fiber.StatusBadRequest, "you cannot change your own account")
		return 0, false
	}
	return target, true
}

func (h *AdminHandler) respondWithUser(c fiber.Ctx, id int64) error {
	user, err := h.users.GetUserByID(c.Context(), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, user)
}
