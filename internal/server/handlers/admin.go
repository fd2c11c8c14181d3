package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/storage"
	"github.com/skripsit/backend/pkg/api"
)

// AdminHandler serves the admin user listing. It only ever exposes account
// metadata and the has_profile flag, never encrypted field contents.
type AdminHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(logger *slog.Logger, users storage.UserStorage) *AdminHandler {
	return &AdminHandler{
		logger: logger,
		users:  users,
	}
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := h.users.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(h.logger, w, "failed to get users", http.StatusInternalServerError)
		return
	}

	users := make([]api.AdminUser, 0, len(summaries))
	for _, s := range summaries {
		users = append(users, toAdminUser(s))
	}

	sendJSON(h.logger, w, http.StatusOK, api.UsersResponse{
		Success: true,
		Users:   users,
	})
}

// UserDetails handles GET /api/admin/users/{id}.
func (h *AdminHandler) UserDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("id")
	if userID == "" {
		sendError(h.logger, w, "user id is required", http.StatusBadRequest)
		return
	}

	summary, err := h.users.GetUserSummary(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user details", slog.Any("error", err))
		sendError(h.logger, w, "failed to get user details", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, http.StatusOK, api.UserDetailResponse{
		Success: true,
		User:    toAdminUser(summary),
	})
}

func toAdminUser(s *models.UserSummary) api.AdminUser {
	return api.AdminUser{
		ID:         s.ID,
		Email:      s.Email,
		Role:       s.Role,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
		HasProfile: s.HasProfile,
	}
}
