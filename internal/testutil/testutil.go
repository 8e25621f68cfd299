// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"articlehub/internal/db"
	"articlehub/internal/models"
)

// StartPostgres returns a connection string for a test database. It uses
// TEST_DATABASE_URL when set and otherwise starts a disposable container,
// terminated by the returned function.
func StartPostgres(ctx context.Context) (string, func(), error) {
	if connString := os.Getenv("TEST_DATABASE_URL"); connString != "" {
		return connString, func() {}, nil
	}

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("articlehub_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return "", nil, fmt.Errorf("start postgres container: %w", err)
	}

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return "", nil, fmt.Errorf("container connection string: %w", err)
	}

	return connString, func() { _ = container.Terminate(ctx) }, nil
}

// OpenDB connects to connString and applies all migrations.
func OpenDB(ctx context.Context, connString string) (*db.DB, error) {
	database, err := db.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// CleanupTestData removes all rows, respecting foreign keys.
func CleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM activity_logs")
	pool.Exec(ctx, "DELETE FROM likes")
	pool.Exec(ctx, "DELETE FROM comments")
	pool.Exec(ctx, "DELETE FROM articles")
	pool.Exec(ctx, "DELETE FROM categories")
	pool.Exec(ctx, "DELETE FROM users")
}

var seq atomic.Int64

// CreateTestUser creates a password account with the given role.
func CreateTestUser(t *testing.T, database *db.DB, role models.Role) *models.User {
	t.Helper()

	n := seq.Add(1)
	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "not-a-real-hash",
		Fullname:     fmt.Sprintf("Test User %d", n),
		Role:         role,
	}
	if err := database.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, database *db.DB) *models.Category {
	t.Helper()

	c, err := database.CreateCategory(context.Background(), fmt.Sprintf("Category %d", seq.Add(1)))
	if err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return c
}

// CreateTestArticle creates a pending article by author in category.
func CreateTestArticle(t *testing.T, database *db.DB, authorID, categoryID int64) *models.Article {
	t.Helper()

	article := &models.Article{
		AuthorID:   authorID,
		CategoryID: categoryID,
		Title:      fmt.Sprintf("Test article %d", seq.Add(1)),
		Content:    "Some content for the test article.",
	}
	if err := database.CreateArticle(context.Background(), article); err != nil {
		t.Fatalf("failed to create test article: %v", err)
	}
	return article
}
