package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/middleware"
	"articlehub/internal/service"
)

// LikeHandler handles article likes via JSON API.
type LikeHandler struct {
	engagement *service.EngagementService
	logger     *slog.Logger
}

// NewLikeHandler creates a new API like handler.
func NewLikeHandler(engagement *service.EngagementService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{engagement: engagement, logger: logger}
}

// Like likes an article.
func (h *LikeHandler) Like(c fiber.Ctx) error {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	status, err := h.engagement.Like(c.Context(), middleware.Requester(c), articleID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, status)
}

// Unlike removes the requester's like.
func (h *LikeHandler) Unlike(c fiber.Ctx) error {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	status, err := h.engagement.Unlike(c.Context(), middleware.Requester(c), articleID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, status)
}

// Status tells whether the requester likes an article.
func (h *LikeHandler) Status(c fiber.Ctx) error {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	status, err := h.engagement.LikeStatus(c.Context(), middleware.Requester(c), articleID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, status)
}

// Count returns the number of likes on an article.
func (h *LikeHandler) Count(c fiber.Ctx) error {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	count, err := h.engagement.LikeCount(c.Context(), middleware.Requester(c), articleID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, count)
}
