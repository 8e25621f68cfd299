package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"articlehub/internal/models"
)

const userColumns = `id, email, COALESCE(password_hash, ''), fullname, oidc_sub, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user models.User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Fullname,
		&user.OIDCSub,
		&role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role, err = models.ParseRole(role); err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	return &user, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateUser inserts a password account. Role defaults to user.
func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	if !user.Role.Assignable() {
		user.Role = models.RoleUser
	}

	query := `
		INSERT INTO users (email, password_hash, fullname, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		user.Email,
		nullIfEmpty(user.PasswordHash),
		user.Fullname,
		user.Role.String(),
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if pgErrorCode(err) == pgUniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

// UpsertOIDCUser creates or refreshes an account keyed by its OIDC subject.
// An existing password account with the same email is linked to the subject
// unless it is already linked to a different one.
func (d *DB) UpsertOIDCUser(ctx context.Context, sub, email, fullname string) (*models.User, error) {
	updated, err := scanUser(d.Pool.QueryRow(ctx, `
		UPDATE users SET email = $2, fullname = $3, updated_at = NOW()
		WHERE oidc_sub = $1
		RETURNING `+userColumns, sub, email, fullname))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	query := `
		INSERT INTO users (email, fullname, oidc_sub, role)
		VALUES ($1, $2, $3, 'user')
		ON CONFLICT (email) DO UPDATE SET
			oidc_sub = EXCLUDED.oidc_sub,
			updated_at = NOW()
		WHERE users.oidc_sub IS NULL
		RETURNING ` + userColumns

	user, err := scanUser(d.Pool.QueryRow(ctx, query, email, fullname, sub))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrDuplicateEmail
	}
	return user, err
}

// GetUserByID retrieves a user by id.
func (d *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(d.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(d.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

// GetUserBySub retrieves a user by their OIDC subject identifier.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	return scanUser(d.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE oidc_sub = $1`, sub))
}

// UpdateProfile changes a user's display name and email.
func (d *DB) UpdateProfile(ctx context.Context, id int64, fullname, email string) (*models.User, error) {
	query := `
		UPDATE users SET fullname = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(d.Pool.QueryRow(ctx, query, id, fullname, email))
	if pgErrorCode(err) == pgUniqueViolation {
		return nil, ErrDuplicateEmail
	}
	return user, err
}

// UpdatePassword replaces a user's password hash.
func (d *DB) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result, err := d.Pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUserRole sets a user's role.
func (d *DB) UpdateUserRole(ctx context.Context, id int64, role models.Role) error {
	if !role.Assignable() {
		return fmt.Errorf("role %s cannot be assigned", role)
	}
	result, err := d.Pool.Exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role.String())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetUserActive enables or disables an account.
func (d *DB) SetUserActive(ctx context.Context, id int64, active bool) error {
	result, err := d.Pool.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PromoteUsersByEmail raises the listed accounts to role. Accounts that
// already hold a higher role are left alone.
func (d *DB) PromoteUsersByEmail(ctx context.Context, emails []string, role models.Role) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	query := `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE LOWER(email) = ANY($1)
		  AND CASE role WHEN 'admin' THEN 3 WHEN 'moderator' THEN 2 ELSE 1 END < $3
	`
	result, err := d.Pool.Exec(ctx, query, emails, role.String(), int(role))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// ListUsers returns one page of accounts, newest first, and the total count.
func (d *DB) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	var total int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
