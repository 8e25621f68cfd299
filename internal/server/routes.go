package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"articlehub/internal/auth"
	"articlehub/internal/db"
	"articlehub/internal/handlers"
	"articlehub/internal/handlers/api"
	"articlehub/internal/middleware"
	"articlehub/internal/policy"
	"articlehub/internal/service"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	DB       *db.DB
	Tokens   *auth.Tokens
	Activity api.ActivityRecorder
	Notifier service.Notifier
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Dependencies) {
	database := deps.DB

	// Services
	articles := service.NewArticleService(database, deps.Activity, deps.Notifier)
	engagement := service.NewEngagementService(database, database, database, deps.Activity)

	// Middleware
	authMW := middleware.NewAuthMiddleware(deps.Tokens, database, s.Logger)
	requireMod := middleware.Require(policy.DecideModerationQueue)
	requireAdmin := middleware.Require(policy.DecideAdmin)

	// Handlers
	authHandler := api.NewAuthHandler(database, deps.Tokens, deps.Activity, s.Logger)
	articleHandler := api.NewArticleHandler(articles, s.Logger)
	categoryHandler := api.NewCategoryHandler(database, s.Logger)
	commentHandler := api.NewCommentHandler(engagement, s.Logger)
	likeHandler := api.NewLikeHandler(engagement, s.Logger)
	profileHandler := api.NewProfileHandler(database, deps.Activity, s.Logger)
	adminHandler := api.NewAdminHandler(database, database, articles, deps.Activity, s.Logger)

	s.registerOps(database)

	apiGroup := s.App.Group("/api")

	// Auth
	authGroup := apiGroup.Group("/auth", s.rateLimit(20, 15*time.Minute, "auth"))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	if s.Cfg.IsOIDCEnabled() {
		oidcHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database, deps.Tokens, deps.Activity, s.Logger)
		if err != nil {
			s.Logger.Warn("OIDC login disabled, provider unavailable", "issuer", s.Cfg.OIDCIssuer, "error", err)
		} else {
			authGroup.Get("/oidc/login", oidcHandler.Login)
			authGroup.Get("/oidc/callback", oidcHandler.Callback)
			authGroup.Post("/oidc/token", oidcHandler.Token)
			authGroup.Post("/oidc/logout", oidcHandler.Logout)
		}
	}

	// Articles; static segments come before /:id
	articleGroup := apiGroup.Group("/articles")
	articleGroup.Get("/", authMW.OptionalAuth, articleHandler.List)
	articleGroup.Post("/", authMW.RequireAuth, articleHandler.Create)
	articleGroup.Get("/my", authMW.RequireAuth, articleHandler.Mine)
	articleGroup.Get("/admin/list", authMW.RequireAuth, requireMod, articleHandler.AdminList)
	articleGroup.Get("/:id", authMW.OptionalAuth, articleHandler.Get)
	articleGroup.Put("/:id", authMW.RequireAuth, articleHandler.Update)
	articleGroup.Delete("/:id", authMW.RequireAuth, articleHandler.Delete)
	articleGroup.Patch("/:id/approve", authMW.RequireAuth, articleHandler.Approve)
	articleGroup.Patch("/:id/reject", authMW.RequireAuth, articleHandler.Reject)

	// Categories
	categoryGroup := apiGroup.Group("/categories")
	categoryGroup.Get("/", categoryHandler.List)
	categoryGroup.Post("/", authMW.RequireAuth, requireAdmin, categoryHandler.Create)
	categoryGroup.Put("/:id", authMW.RequireAuth, requireAdmin, categoryHandler.Update)
	categoryGroup.Delete("/:id", authMW.RequireAuth, requireAdmin, categoryHandler.Delete)

	// Comments
	commentGroup := apiGroup.Group("/comments")
	commentGroup.Get("/article/:articleId", authMW.OptionalAuth, commentHandler.List)
	commentGroup.Post("/article/:articleId", authMW.RequireAuth, s.rateLimit(5, time.Minute, "comments"), commentHandler.Create)
	commentGroup.Delete("/:id", authMW.RequireAuth, commentHandler.Delete)
	commentGroup.Patch("/:id/approve", authMW.RequireAuth, middleware.Require(policy.DecideCommentModeration), commentHandler.SetApproval)

	// Likes
	likeGroup := apiGroup.Group("/likes")
	likeGroup.Post("/:articleId", authMW.RequireAuth, likeHandler.Like)
	likeGroup.Delete("/:articleId", authMW.RequireAuth, likeHandler.Unlike)
	likeGroup.Get("/:articleId/status", authMW.RequireAuth, likeHandler.Status)
	likeGroup.Get("/:articleId/count", authMW.OptionalAuth, likeHandler.Count)

	// Profile
	profileGroup := apiGroup.Group("/profile", authMW.RequireAuth)
	profileGroup.Get("/me", profileHandler.Me)
	profileGroup.Put("/me", profileHandler.Update)
	profileGroup.Put("/me/password", profileHandler.ChangePassword)

	// Activity feed (moderators and admins)
	apiGroup.Get("/activity", authMW.RequireAuth, requireMod, adminHandler.ActivityLogs)

	// Admin
	adminGroup := apiGroup.Group("/admin", authMW.RequireAuth, requireAdmin)
	adminGroup.Get("/stats", adminHandler.Stats)
	adminGroup.Get("/users", adminHandler.Users)
	adminGroup.Get("/articles/pending", adminHandler.PendingArticles)
	adminGroup.Get("/activity-logs", adminHandler.ActivityLogs)
	adminGroup.Patch("/users/:id/status", adminHandler.SetUserStatus)
	adminGroup.Patch("/users/:id/role", adminHandler.SetUserRole)
}

// registerOps registers probe and metrics endpoints.
func (s *Server) registerOps(database handlers.Pinger) {
	probeHandler := handlers.NewProbeHandler(database)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
