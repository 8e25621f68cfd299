package api

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"articlehub/internal/db"
	"articlehub/internal/policy"
	"articlehub/internal/validation"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated returns a 201 response with data wrapped in the standard envelope.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// missing are store lookups reported to the client as 404.
var missing = []error{
	db.ErrUserNotFound,
	db.ErrCategoryNotFound,
	db.ErrCommentNotFound,
}

// conflicts are store errors reported to the client as 409.
var conflicts = []error{
	db.ErrTransitionConflict,
	db.ErrDuplicateEmail,
	db.ErrDuplicateCategory,
	db.ErrCategoryInUse,
}

// handleError maps service and store errors to a response. Policy denials
// keep their message; anything unexpected is logged and hidden.
func handleError(c fiber.Ctx, logger *slog.Logger, err error) error {
	switch {
	case errors.Is(err, policy.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, publicMessage(err))
	case errors.Is(err, policy.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, publicMessage(err))
	case errors.Is(err, policy.ErrValidation):
		return jsonError(c, fiber.StatusBadRequest, publicMessage(err))
	}

	for _, target := range missing {
		if errors.Is(err, target) {
			return jsonError(c, fiber.StatusNotFound, target.Error())
		}
	}
	for _, target := range conflicts {
		if errors.Is(err, target) {
			return jsonError(c, fiber.StatusConflict, target.Error())
		}
	}

	logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return jsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// publicMessage prefers the denial's own message over any wrapping context.
func publicMessage(err error) string {
	var denial *policy.DenialError
	if errors.As(err, &denial) {
		return denial.Message
	}
	var invalid *validation.Error
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	return err.Error()
}

// paramID parses a positive numeric route parameter.
func paramID(c fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
