package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a requester can hold. Roles are ordered:
// every role has at least the capabilities of the roles below it.
type Role uint8

// Role constants
const (
	RoleGuest Role = iota
	RoleUser
	RoleModerator
	RoleAdmin
)

var roleNames = [...]string{
	RoleGuest:     "guest",
	RoleUser:      "user",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

// ParseRole converts a role name into a Role. Names are case-insensitive.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return Role(r), nil
		}
	}
	return RoleGuest, fmt.Errorf("unknown role %q", s)
}

// String returns the role name.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return int(r) < len(roleNames)
}

// Assignable reports whether r can be stored on an account. Guest is only
// ever implied by the absence of an identity.
func (r Role) Assignable() bool {
	return r.Valid() && r != RoleGuest
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
