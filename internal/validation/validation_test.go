package validation

import (
	"errors"
	"strings"
	"testing"

	"articlehub/internal/policy"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"Name <user@example.com>", false},
		{"user@", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got, _ := ValidateEmail(tt.email); got != tt.valid {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail() = %q, want %q", got, "user@example.com")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"six characters", "abcdef", true},
		{"five characters", "abcde", false},
		{"empty", "", false},
		{"too long for bcrypt", strings.Repeat("a", 73), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ValidatePassword(tt.password); got != tt.valid {
				t.Errorf("ValidatePassword() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		title string
		valid bool
	}{
		{"Hello", true},
		{"Hell", false},
		{"   Hell   ", false},
		{"Héllo", true},
		{strings.Repeat("x", 201), false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got, _ := ValidateTitle(tt.title); got != tt.valid {
				t.Errorf("ValidateTitle(%q) = %v, want %v", tt.title, got, tt.valid)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		content string
		valid   bool
	}{
		{"Nice", true},
		{"ok!", true},
		{"ok", false},
		{"  ok  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			if got, _ := ValidateComment(tt.content); got != tt.valid {
				t.Errorf("ValidateComment(%q) = %v, want %v", tt.content, got, tt.valid)
			}
		})
	}
}

func TestValidateContentAndCategory(t *testing.T) {
	if ok, _ := ValidateContent("  \n "); ok {
		t.Error("ValidateContent(blank) = true, want false")
	}
	if ok, _ := ValidateCategoryName(""); ok {
		t.Error("ValidateCategoryName(\"\") = true, want false")
	}
	if ok, _ := ValidateCategoryName("Science"); !ok {
		t.Error("ValidateCategoryName(\"Science\") = false, want true")
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, DefaultLimit},
		{"3", "20", 3, 20},
		{"0", "-5", 1, DefaultLimit},
		{"abc", "1000", 1, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.page+"/"+tt.limit, func(t *testing.T) {
			page, limit := ParsePagination(tt.page, tt.limit)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("ParsePagination(%q, %q) = (%d, %d), want (%d, %d)",
					tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestFail_MatchesValidationSentinel(t *testing.T) {
	err := Fail("bad input")
	if !errors.Is(err, policy.ErrValidation) {
		t.Error("errors.Is(Fail(), policy.ErrValidation) = false")
	}
	if err.Error() != "bad input" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad input")
	}
}
