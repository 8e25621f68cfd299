package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"articlehub/internal/config"
	"articlehub/internal/db"
	"articlehub/internal/handlers/api"
	"articlehub/internal/models"
)

const (
	sessionState  = "oauth_state"
	sessionUserID = "oidc_user_id"
)

// OIDCUserStore links OIDC identities to accounts.
type OIDCUserStore interface {
	UpsertOIDCUser(ctx context.Context, sub, email, fullname string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthHandler handles OIDC authentication flows. A completed login leaves
// the account id in the session; the frontend then exchanges it for an API
// access token.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	users        OIDCUserStore
	tokens       api.TokenIssuer
	activity     api.ActivityRecorder
	cfg          *config.Config
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler with OIDC configuration.
func NewAuthHandler(ctx context.Context, cfg *config.Config, users OIDCUserStore, tokens api.TokenIssuer, activity api.ActivityRecorder, logger *slog.Logger) (*AuthHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &AuthHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
		users:        users,
		tokens:       tokens,
		activity:     activity,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state, err := generateState()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to start login")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set(sessionState, state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get(sessionState).(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete(sessionState)

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put email and name in the userinfo response.
	userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
	if err == nil {
		var userInfoClaims map[string]any
		if err := userInfo.Claims(&userInfoClaims); err == nil {
			for k, v := range userInfoClaims {
				claims[k] = v
			}
		}
	} else {
		h.logger.Warn("failed to fetch userinfo", "error", err)
	}

	if h.cfg.IsDev() {
		h.logger.Debug("OIDC claims received", "claims", claims)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" || email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "identity provider did not return sub and email")
	}

	user, err := h.users.UpsertOIDCUser(c.Context(), sub, email, name)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusConflict, "email is linked to another identity")
		}
		return err
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "account is disabled")
	}

	sess.Set(sessionUserID, user.ID)
	return c.Redirect().To(h.cfg.BaseURL + "/")
}

// Token exchanges a completed OIDC login for an API access token. The
// session is cleared so the exchange works once.
func (h *AuthHandler) Token(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return jsonError(c, fiber.StatusInternalServerError, "session not available")
	}

	userID, ok := sess.Get(sessionUserID).(int64)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "no completed login in session")
	}

	user, err := h.users.GetUserByID(c.Context(), userID)
	if err != nil || !user.IsActive {
		sess.Destroy()
		return jsonError(c, fiber.StatusUnauthorized, "no completed login in session")
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("failed to issue token", "user_id", user.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	sess.Destroy()

	h.activity.Record(&user.ID, models.ActivityLogin, map[string]any{"email": user.Email, "method": "oidc"})
	return c.JSON(fiber.Map{
		"status": "ok",
		"data": models.TokenResponse{
			Token:     token,
			ExpiresIn: int64(h.tokens.TTL().Seconds()),
			User:      user,
		},
	})
}

// Logout clears the session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
