package api

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/middleware"
	"articlehub/internal/service"
)

// CommentHandler handles comments on articles via JSON API.
type CommentHandler struct {
	engagement *service.EngagementService
	logger     *slog.Logger
}

// NewCommentHandler creates a new API comment handler.
func NewCommentHandler(engagement *service.EngagementService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{engagement: engagement, logger: logger}
}

// List returns the comments of an article.
func (h *CommentHandler) List(c fiber.Ctx) error {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	comments, err := h.engagement.ListComments(c.Context(), middleware.Requester(c), articleID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, comments)
}

// Create posts a comment, or a reply when parent_id is set.
func (h *CommentHandler) Create(c fiber.Ctx) error {
	articleID, ok := paramID(c, "articleId")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	var body struct {
		Content  string `json:"content"`
		ParentID *int64 `json:"parent_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.engagement.CreateComment(c.Context(), middleware.Requester(c), articleID, body.Content, body.ParentID)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonCreated(c, comment)
}

// Delete removes a comment. Only its author or an admin may do so.
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid comment id")
	}

	if err := h.engagement.DeleteComment(c.Context(), middleware.Requester(c), id); err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, fiber.Map{
		"message": "comment deleted successfully",
	})
}

// SetApproval shows or hides a comment. The body defaults to approving.
func (h *CommentHandler) SetApproval(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid comment id")
	}

	body := struct {
		IsApproved *bool `json:"is_approved"`
	}{}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	approved := body.IsApproved == nil || *body.IsApproved

	comment, err := h.engagement.SetCommentApproval(c.Context(), middleware.Requester(c), id, approved)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, comment)
}
