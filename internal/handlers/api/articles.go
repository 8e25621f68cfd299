package api

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/middleware"
	"articlehub/internal/models"
	"articlehub/internal/service"
	"articlehub/internal/validation"
)

// ArticleHandler handles article CRUD and moderation via JSON API.
type ArticleHandler struct {
	articles *service.ArticleService
	logger   *slog.Logger
}

// NewArticleHandler creates a new API article handler.
func NewArticleHandler(articles *service.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, logger: logger}
}

// List returns approved articles, optionally filtered by category.
func (h *ArticleHandler) List(c fiber.Ctx) error {
	filter, ok := listFilter(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category")
	}

	page, err := h.articles.ListApproved(c.Context(), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, page)
}

// Mine returns the requester's own articles in any status.
func (h *ArticleHandler) Mine(c fiber.Ctx) error {
	filter, ok := listFilter(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category")
	}
	filter.Status = models.ArticleStatus(c.Query("status"))

	page, err := h.articles.ListMine(c.Context(), middleware.Requester(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, page)
}

// AdminList returns articles of every author for moderators.
func (h *ArticleHandler) AdminList(c fiber.Ctx) error {
	filter, ok := listFilter(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category")
	}
	filter.Status = models.ArticleStatus(c.Query("status"))

	page, err := h.articles.ListForModeration(c.Context(), middleware.Requester(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, page)
}

// Get returns a single article if the requester may see it.
func (h *ArticleHandler) Get(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	article, err := h.articles.Get(c.Context(), middleware.Requester(c), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, article)
}

// Create submits a new article for review.
func (h *ArticleHandler) Create(c fiber.Ctx) error {
	var body service.ArticleInput
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	article, err := h.articles.Create(c.Context(), middleware.Requester(c), body)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonCreated(c, article)
}

// Update edits an article. Only the author or an admin may do so.
func (h *ArticleHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	var body service.ArticleInput
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	article, err := h.articles.Update(c.Context(), middleware.Requester(c), id, body)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, article)
}

// Delete removes an article. Only the author or an admin may do so.
func (h *ArticleHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	if err := h.articles.Delete(c.Context(), middleware.Requester(c), id); err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, fiber.Map{
		"message": "article deleted successfully",
	})
}

// Approve publishes an article.
func (h *ArticleHandler) Approve(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	article, err := h.articles.Approve(c.Context(), middleware.Requester(c), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, article)
}

// Reject rejects an article with a reason.
func (h *ArticleHandler) Reject(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	article, err := h.articles.Reject(c.Context(), middleware.Requester(c), id, body.Reason)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, article)
}

// listFilter reads pagination and the optional category filter.
func listFilter(c fiber.Ctx) (models.ArticleFilter, bool) {
	var filter models.ArticleFilter
	filter.Page, filter.Limit = validation.ParsePagination(c.Query("page"), c.Query("limit"))

	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, false
		}
		filter.CategoryID = id
	}
	return filter, true
}
