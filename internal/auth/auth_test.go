package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"articlehub/internal/models"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"match", hash, "secret123", nil},
		{"mismatch", hash, "secret124", ErrPasswordMismatch},
		{"empty hash", "", "secret123", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckPassword(tt.hash, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckPassword() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Error("NewTokens(\"\") error = nil, want error")
	}
}

func TestTokens_IssueVerify(t *testing.T) {
	tokens, _ := NewTokens("test-secret", time.Hour)
	user := &models.User{ID: 42, Role: models.RoleModerator}

	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "42")
	}
	if claims.Role != "moderator" {
		t.Errorf("Role = %q, want %q", claims.Role, "moderator")
	}
	if claims.ID == "" {
		t.Error("ID is empty, want a token id")
	}
}

func TestTokens_VerifyRejects(t *testing.T) {
	tokens, _ := NewTokens("test-secret", time.Hour)
	other, _ := NewTokens("other-secret", time.Hour)
	user := &models.User{ID: 1, Role: models.RoleUser}

	good, _ := tokens.Issue(user)
	forged, _ := other.Issue(user)

	expiring, _ := NewTokens("test-secret", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _ := expiring.Issue(user)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", forged},
		{"expired", expired},
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"tampered", tamper(good)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

// tamper flips a character in the middle of the signature segment.
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 5
	replacement := "A"
	if token[i] == 'A' {
		replacement = "B"
	}
	return token[:i] + replacement + token[i+1:]
}
