package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/skripsit/backend/internal/crypto"
	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/middleware"
	"github.com/skripsit/backend/internal/server/storage"
	"github.com/skripsit/backend/internal/server/token"
	"github.com/skripsit/backend/internal/validation"
	"github.com/skripsit/backend/pkg/api"
)

// invalidCredentials is the only message a failed login ever produces, no
// matter which check failed, so responses cannot be used to enumerate
// accounts.
const invalidCredentials = "invalid email or password"

// AuthHandler serves registration, login, logout and session verification.
type AuthHandler struct {
	logger        *slog.Logger
	users         storage.UserStorage
	revoked       storage.RevocationStore
	tokenConfig   token.Config
	resetTokenTTL time.Duration
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(
	logger *slog.Logger,
	users storage.UserStorage,
	revoked storage.RevocationStore,
	tokenConfig token.Config,
	resetTokenTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		logger:        logger,
		users:         users,
		revoked:       revoked,
		tokenConfig:   tokenConfig,
		resetTokenTTL: resetTokenTTL,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "name, email and password are required", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate salt", slog.Any("error", err))
		sendError(h.logger, w, "registration failed", http.StatusInternalServerError)
		return
	}

	hash, err := crypto.HashPassword(req.Password, salt)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "registration failed", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hex.EncodeToString(hash),
		PasswordSalt: hex.EncodeToString(salt),
		Role:         models.RoleUser,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			sendError(h.logger, w, "email already registered", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "registration failed", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, http.StatusCreated, api.RegisterResponse{
		Success: true,
		Message: "registration successful",
		UserID:  user.ID,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, invalidCredentials, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load user", slog.Any("error", err))
		sendError(h.logger, w, "login failed", http.StatusInternalServerError)
		return
	}

	salt, errSalt := hex.DecodeString(user.PasswordSalt)
	hash, errHash := hex.DecodeString(user.PasswordHash)
	if errSalt != nil || errHash != nil {
		h.logger.ErrorContext(ctx, "corrupt stored credential", slog.String("user_id", user.ID))
		sendError(h.logger, w, "login failed", http.StatusInternalServerError)
		return
	}

	ok, err := crypto.VerifyPassword(req.Password, salt, hash)
	if err != nil {
		h.logger.ErrorContext(ctx, "password verification failed", slog.Any("error", err))
		sendError(h.logger, w, "login failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		sendError(h.logger, w, invalidCredentials, http.StatusUnauthorized)
		return
	}

	signed, err := token.Issue(h.tokenConfig, user.ID, user.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token", slog.Any("error", err))
		sendError(h.logger, w, "login failed", http.StatusInternalServerError)
		return
	}

	token.SetCookie(w, h.tokenConfig, signed)

	h.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, http.StatusOK, api.LoginResponse{
		Success: true,
		Message: "login successful",
		User:    api.UserInfo{Name: user.Name, Role: user.Role},
	})
}

// Logout handles POST /api/auth/logout. The session cookie is cleared
// unconditionally; if it carried a valid token, that token is revoked for
// the rest of its lifetime.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(token.CookieName); err == nil && cookie.Value != "" {
		if claims, err := token.Validate(h.tokenConfig, cookie.Value); err == nil {
			if err := h.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
				h.logger.ErrorContext(ctx, "failed to revoke session", slog.Any("error", err))
			}
		}
	}

	token.ClearCookie(w, h.tokenConfig)

	sendJSON(h.logger, w, http.StatusOK, api.MessageResponse{
		Success: true,
		Message: "logged out successfully",
	})
}

// ResetPasswordRequest handles POST /api/auth/reset-password-request.
// The response is identical whether or not the account exists. Delivering
// the token by email is an external concern.
func (h *AuthHandler) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		sendError(h.logger, w, "email is required", http.StatusBadRequest)
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		h.logger.ErrorContext(ctx, "failed to generate reset token", slog.Any("error", err))
		sendError(h.logger, w, "reset request failed", http.StatusInternalServerError)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	expiresAt := time.Now().Add(h.resetTokenTTL)

	err := h.users.SetResetToken(ctx, email, hex.EncodeToString(tokenBytes), expiresAt)
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		h.logger.ErrorContext(ctx, "failed to store reset token", slog.Any("error", err))
		sendError(h.logger, w, "reset request failed", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, http.StatusOK, api.MessageResponse{
		Success: true,
		Message: "password reset instructions sent to email",
	})
}

// Verify handles GET /api/auth/verify for an authenticated session.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		sendError(h.logger, w, "not authenticated", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, http.StatusOK, api.VerifyResponse{
		Success: true,
		Role:    principal.Role,
		Name:    principal.Name,
		Email:   principal.Email,
	})
}

// Role handles GET /api/auth/role.
func (h *AuthHandler) Role(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		sendError(h.logger, w, "not authenticated", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, http.StatusOK, api.RoleResponse{Role: principal.Role})
}
