package handlers

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/skripsit/backend/internal/crypto"
	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/pkg/api"
)

func sendJSON(logger *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func sendError(logger *slog.Logger, w http.ResponseWriter, message string, status int) {
	sendJSON(logger, w, status, api.ErrorResponse{Success: false, Error: message})
}

// fieldKeysFor reconstructs the PII field keys from a stored credential.
// This is the only place the hex-encoded credential columns are decoded.
func fieldKeysFor(user *models.User) (*crypto.FieldKeys, error) {
	hash, err := hex.DecodeString(user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("decode stored hash: %w", err)
	}
	salt, err := hex.DecodeString(user.PasswordSalt)
	if err != nil {
		return nil, fmt.Errorf("decode stored salt: %w", err)
	}
	return crypto.DeriveFieldKeys(hash, salt)
}
