package models

import "time"

// User is a registered account. Accounts created through OIDC may have no
// password hash.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Fullname     string    `json:"fullname"`
	OIDCSub      *string   `json:"-"` // OIDC subject identifier
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword returns true if the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
