package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"articlehub/internal/auth"
	"articlehub/internal/db"
	"articlehub/internal/middleware"
	"articlehub/internal/models"
	"articlehub/internal/policy"
	"articlehub/internal/service"
	"articlehub/internal/service/mocks"
)

// Account ids used across the handler tests.
const (
	authorID    int64 = 5
	strangerID  int64 = 6
	moderatorID int64 = 7
	adminID     int64 = 8
)

type recordedEvent struct {
	userID *int64
	action string
}

type fakeActivity struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeActivity) Record(userID *int64, action string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{userID: userID, action: action})
}

func (f *fakeActivity) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.action)
	}
	return out
}

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newFakeUsers() *fakeUsers {
	f := &fakeUsers{nextID: 100, byID: map[int64]*models.User{}}
	for id, role := range map[int64]models.Role{
		authorID:    models.RoleUser,
		strangerID:  models.RoleUser,
		moderatorID: models.RoleModerator,
		adminID:     models.RoleAdmin,
	} {
		f.byID[id] = &models.User{ID: id, Email: role.String() + "@example.com", Role: role, IsActive: true}
	}
	f.byID[strangerID].Email = "stranger@example.com"
	return f
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return db.ErrDuplicateEmail
		}
	}
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, fullname, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ID != id && u.Email == email {
			return nil, db.ErrDuplicateEmail
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	u.Fullname, u.Email = fullname, email
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	return f.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (f *fakeUsers) UpdateUserRole(_ context.Context, id int64, role models.Role) error {
	return f.update(id, func(u *models.User) { u.Role = role })
}

func (f *fakeUsers) SetUserActive(_ context.Context, id int64, active bool) error {
	return f.update(id, func(u *models.User) { u.IsActive = active })
}

func (f *fakeUsers) ListUsers(_ context.Context, page, limit int) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		users = append(users, *u)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUsers) update(id int64, fn func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return db.ErrUserNotFound
	}
	fn(u)
	return nil
}

// harness wires the handlers the same way the server does, backed by mocks.
type harness struct {
	t        *testing.T
	app      *fiber.App
	tokens   *auth.Tokens
	users    *fakeUsers
	activity *fakeActivity

	articles *mocks.MockArticleStore
	comments *mocks.MockCommentStore
	likes    *mocks.MockLikeStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	tokens, err := auth.NewTokens("handler-test-secret", time.Hour)
	require.NoError(t, err)

	h := &harness{
		t:        t,
		tokens:   tokens,
		users:    newFakeUsers(),
		activity: &fakeActivity{},
		articles: mocks.NewMockArticleStore(ctrl),
		comments: mocks.NewMockCommentStore(ctrl),
		likes:    mocks.NewMockLikeStore(ctrl),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	articleService := service.NewArticleService(h.articles, h.activity, nil)
	engagement := service.NewEngagementService(h.articles, h.comments, h.likes, h.activity)

	authMW := middleware.NewAuthMiddleware(tokens, h.users, logger)
	articlesH := NewArticleHandler(articleService, logger)
	commentsH := NewCommentHandler(engagement, logger)
	likesH := NewLikeHandler(engagement, logger)
	authH := NewAuthHandler(h.users, tokens, h.activity, logger)
	profileH := NewProfileHandler(h.users, h.activity, logger)
	adminH := NewAdminHandler(nil, h.users, articleService, h.activity, logger)

	app := fiber.New()
	app.Post("/api/auth/register", authH.Register)
	app.Post("/api/auth/login", authH.Login)

	app.Get("/api/articles", authMW.OptionalAuth, articlesH.List)
	app.Post("/api/articles", authMW.RequireAuth, articlesH.Create)
	app.Get("/api/articles/:id", authMW.OptionalAuth, articlesH.Get)
	app.Put("/api/articles/:id", authMW.RequireAuth, articlesH.Update)
	app.Delete("/api/articles/:id", authMW.RequireAuth, articlesH.Delete)
	app.Patch("/api/articles/:id/approve", authMW.RequireAuth, articlesH.Approve)
	app.Patch("/api/articles/:id/reject", authMW.RequireAuth, articlesH.Reject)

	app.Get("/api/comments/article/:articleId", authMW.OptionalAuth, commentsH.List)
	app.Post("/api/comments/article/:articleId", authMW.RequireAuth, commentsH.Create)
	app.Delete("/api/comments/:id", authMW.RequireAuth, commentsH.Delete)

	app.Post("/api/likes/:articleId", authMW.RequireAuth, likesH.Like)
	app.Get("/api/likes/:articleId/count", authMW.OptionalAuth, likesH.Count)

	app.Get("/api/profile/me", authMW.RequireAuth, profileH.Me)
	app.Put("/api/profile/me/password", authMW.RequireAuth, profileH.ChangePassword)

	admin := app.Group("/api/admin", authMW.RequireAuth, middleware.Require(policy.DecideAdmin))
	admin.Patch("/users/:id/role", adminH.SetUserRole)
	admin.Patch("/users/:id/status", adminH.SetUserStatus)

	h.app = app
	return h
}

func (h *harness) token(id int64) string {
	h.t.Helper()
	user, err := h.users.GetUserByID(context.Background(), id)
	require.NoError(h.t, err)
	token, err := h.tokens.Issue(user)
	require.NoError(h.t, err)
	return token
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

// do sends a request as the given account; asID 0 sends no token.
func (h *harness) do(method, path string, asID int64, body any) (int, envelope) {
	h.t.Helper()
	token := ""
	if asID != 0 {
		token = h.token(asID)
	}
	return h.send(method, path, token, body)
}

func (h *harness) send(method, path, token string, body any) (int, envelope) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func article(status models.ArticleStatus) *models.Article {
	a := &models.Article{ID: 1, AuthorID: authorID, CategoryID: 2, Title: "Hello world", Content: "Body", Status: status}
	if status == models.StatusRejected {
		reason := "needs more detail"
		a.RejectionReason = &reason
	}
	return a
}

