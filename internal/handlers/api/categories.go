package api

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/models"
	"articlehub/internal/validation"
)

// CategoryHandler handles article categories via JSON API.
type CategoryHandler struct {
	categories CategoryStore
	logger     *slog.Logger
}

// NewCategoryHandler creates a new API category handler.
func NewCategoryHandler(categories CategoryStore, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// List returns all categories.
func (h *CategoryHandler) List(c fiber.Ctx) error {
	categories, err := h.categories.ListCategories(c.Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return jsonSuccess(c, categories)
}

// Create adds a category (admin only).
func (h *CategoryHandler) Create(c fiber.Ctx) error {
	name, err := categoryName(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	category, err := h.categories.CreateCategory(c.Context(), name)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonCreated(c, category)
}

// Update renames a category (admin only).
func (h *CategoryHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	name, err := categoryName(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	category, err := h.categories.RenameCategory(c.Context(), id, name)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, category)
}

// Delete removes an unused category (admin only).
func (h *CategoryHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}

	if err := h.categories.DeleteCategory(c.Context(), id); err != nil {
		return handleError(c, h.logger, err)
	}
	return jsonSuccess(c, fiber.Map{
		"message": "category deleted successfully",
	})
}

func categoryName(c fiber.Ctx) (string, error) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return "", validation.Fail("invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if ok, msg := validation.ValidateCategoryName(name); !ok {
		return "", validation.Fail(msg)
	}
	return name, nil
}
