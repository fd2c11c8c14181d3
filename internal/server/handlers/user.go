package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/skripsit/backend/internal/crypto"
	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/middleware"
	"github.com/skripsit/backend/internal/server/storage"
	"github.com/skripsit/backend/pkg/api"
)

// UserHandler serves profile completion, profile read and verification
// status for the authenticated account.
type UserHandler struct {
	logger   *slog.Logger
	users    storage.UserStorage
	profiles storage.ProfileStorage
}

// NewUserHandler creates the user handler.
func NewUserHandler(logger *slog.Logger, users storage.UserStorage, profiles storage.ProfileStorage) *UserHandler {
	return &UserHandler{
		logger:   logger,
		users:    users,
		profiles: profiles,
	}
}

// CompleteProfile handles POST /api/user/complete-profile. PII fields are
// encrypted under keys derived from the caller's stored credential; each
// field gets its own IV, so equal plaintexts never share ciphertext.
func (h *UserHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		sendError(h.logger, w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req api.CompleteProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.FullName == "" || req.NIK == "" || req.Phone == "" || req.Address == "" {
		sendError(h.logger, w, "full_name, nik, phone and address are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load user", slog.Any("error", err))
		sendError(h.logger, w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	keys, err := fieldKeysFor(user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to derive field keys", slog.Any("error", err))
		sendError(h.logger, w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	profile := &models.Profile{UserID: user.ID, IsVerified: true}
	for _, field := range []struct {
		plaintext string
		dst       *string
	}{
		{req.FullName, &profile.EncryptedFullName},
		{req.NIK, &profile.EncryptedNIK},
		{req.Phone, &profile.EncryptedPhone},
		{req.Address, &profile.EncryptedAddress},
	} {
		encrypted, err := crypto.EncryptField(field.plaintext, keys.Encryption, keys.MAC)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to encrypt profile field", slog.Any("error", err))
			sendError(h.logger, w, "failed to update profile", http.StatusInternalServerError)
			return
		}
		*field.dst = encrypted
	}

	if err := h.profiles.CompleteProfile(ctx, profile); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist profile", slog.Any("error", err))
		sendError(h.logger, w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "profile completed", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, http.StatusOK, api.CompleteProfileResponse{
		Success:    true,
		Message:    "profile updated successfully",
		IsVerified: true,
		Status:     models.StatusVerified,
	})
}

// Profile handles GET /api/user/profile. Fields are decrypted
// independently: a single undecryptable field is returned as null and
// logged, the rest of the profile still comes back.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		sendError(h.logger, w, "not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load user", slog.Any("error", err))
		sendError(h.logger, w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	data := api.ProfileData{
		Email:  user.Email,
		Status: user.Status,
	}

	profile, err := h.profiles.GetProfile(ctx, user.ID)
	switch {
	case errors.Is(err, storage.ErrProfileNotFound):
		// Not completed yet: all PII fields stay null.
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to load profile", slog.Any("error", err))
		sendError(h.logger, w, "failed to get profile", http.StatusInternalServerError)
		return
	default:
		keys, err := fieldKeysFor(user)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to derive field keys", slog.Any("error", err))
			sendError(h.logger, w, "failed to get profile", http.StatusInternalServerError)
			return
		}

		data.IsVerified = profile.IsVerified
		data.FullName = h.decryptField(ctx, "fullname", profile.EncryptedFullName, keys)
		data.NIK = h.decryptField(ctx, "nik", profile.EncryptedNIK, keys)
		data.Phone = h.decryptField(ctx, "phone", profile.EncryptedPhone, keys)
		data.Address = h.decryptField(ctx, "address", profile.EncryptedAddress, keys)
	}

	sendJSON(h.logger, w, http.StatusOK, api.ProfileResponse{
		Success: true,
		User:    data,
	})
}

// decryptField decrypts one stored field. Absent values and decryption
// failures both map to nil; only the failure is logged (field name, never
// contents).
func (h *UserHandler) decryptField(ctx context.Context, name, encrypted string, keys *crypto.FieldKeys) *string {
	if encrypted == "" {
		return nil
	}

	plaintext, err := crypto.DecryptField(encrypted, keys.Encryption, keys.MAC)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to decrypt profile field",
			slog.String("field", name),
			slog.Any("error", err),
		)
		return nil
	}

	return &plaintext
}

// VerificationStatus handles GET /api/user/verification-status. The account
// status column is the single source of truth.
func (h *UserHandler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		sendError(h.logger, w, "not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load user", slog.Any("error", err))
		sendError(h.logger, w, "failed to check verification status", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, http.StatusOK, api.VerificationStatusResponse{
		Success: true,
		Status:  user.Status,
	})
}
