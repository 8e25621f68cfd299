package validation

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"articlehub/internal/policy"
)

// Length limits for user input.
const (
	MinTitleLength    = 5
	MaxTitleLength    = 200
	MinCommentLength  = 3
	MaxCommentLength  = 5000
	MinPasswordLength = 6
	MaxCategoryLength = 100
)

// Pagination defaults.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Error is an input validation failure. It matches policy.ErrValidation.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return policy.ErrValidation }

// Fail wraps msg as a validation error.
func Fail(msg string) error {
	return &Error{Message: msg}
}

// NormalizeEmail trims and lowercases an email address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address.
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "email is required"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false, "invalid email address"
	}
	return true, ""
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) (bool, string) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false, "password must be at least 6 characters"
	}
	if len(password) > 72 {
		// bcrypt ignores anything past 72 bytes
		return false, "password must be at most 72 bytes"
	}
	return true, ""
}

// ValidateTitle checks an article title after trimming.
func ValidateTitle(title string) (bool, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	switch {
	case n < MinTitleLength:
		return false, "title must be at least 5 characters"
	case n > MaxTitleLength:
		return false, "title must be at most 200 characters"
	}
	return true, ""
}

// ValidateContent checks that an article body is not blank.
func ValidateContent(content string) (bool, string) {
	if strings.TrimSpace(content) == "" {
		return false, "content is required"
	}
	return true, ""
}

// ValidateComment checks a comment body after trimming.
func ValidateComment(content string) (bool, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	switch {
	case n < MinCommentLength:
		return false, "comment must be at least 3 characters"
	case n > MaxCommentLength:
		return false, "comment is too long"
	}
	return true, ""
}

// ValidateCategoryName checks a category name after trimming.
func ValidateCategoryName(name string) (bool, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		return false, "category name is required"
	case n > MaxCategoryLength:
		return false, "category name is too long"
	}
	return true, ""
}

// ParsePagination reads page and limit query values. Missing or invalid
// values fall back to page 1 and DefaultLimit; limit is capped at MaxLimit.
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
