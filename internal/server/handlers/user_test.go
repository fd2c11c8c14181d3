package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/middleware"
	"github.com/skripsit/backend/pkg/api"
)

func principalFor(user *models.User) *models.Principal {
	return &models.Principal{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}
}

func authedRequest(t *testing.T, method, path string, body any, principal *models.Principal) *http.Request {
	t.Helper()

	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	}
	return req
}

func TestCompleteProfile_RoundTrip(t *testing.T) {
	users := newMockUserStorage()
	profiles := newMockProfileStorage(users)
	h := NewUserHandler(testLogger(), users, profiles)
	user := seedUser(t, users, "a@x.com", "secret123", models.RoleUser)

	complete := authedRequest(t, http.MethodPost, "/api/user/complete-profile", api.CompleteProfileRequest{
		FullName: "Alice Hartono",
		NIK:      "3174012345678901",
		Phone:    "+62-812-0000-0000",
		Address:  "Jl. Sudirman 1, Jakarta",
	}, principalFor(user))
	rec := httptest.NewRecorder()
	h.CompleteProfile(rec, complete)

	require.Equal(t, http.StatusOK, rec.Code)

	var completeResp api.CompleteProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completeResp))
	assert.True(t, completeResp.Success)
	assert.True(t, completeResp.IsVerified)
	assert.Equal(t, models.StatusVerified, completeResp.Status)

	// Stored values are ciphertext, never the submitted plaintext.
	stored, err := profiles.GetProfile(t.Context(), user.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.EncryptedNIK, "3174012345678901")
	assert.NotEqual(t, stored.EncryptedFullName, stored.EncryptedNIK)

	// Profile read decrypts back to what was submitted.
	rec = httptest.NewRecorder()
	h.Profile(rec, authedRequest(t, http.MethodGet, "/api/user/profile", nil, principalFor(user)))
	require.Equal(t, http.StatusOK, rec.Code)

	var profileResp api.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profileResp))
	require.NotNil(t, profileResp.User.FullName)
	assert.Equal(t, "Alice Hartono", *profileResp.User.FullName)
	require.NotNil(t, profileResp.User.NIK)
	assert.Equal(t, "3174012345678901", *profileResp.User.NIK)
	require.NotNil(t, profileResp.User.Phone)
	require.NotNil(t, profileResp.User.Address)
	assert.True(t, profileResp.User.IsVerified)
	assert.Equal(t, models.StatusVerified, profileResp.User.Status)
}

func TestCompleteProfile_MissingFields(t *testing.T) {
	users := newMockUserStorage()
	h := NewUserHandler(testLogger(), users, newMockProfileStorage(users))
	user := seedUser(t, users, "a@x.com", "secret123", models.RoleUser)

	tests := []struct {
		name string
		req  api.CompleteProfileRequest
	}{
		{name: "missing full_name", req: api.CompleteProfileRequest{NIK: "1", Phone: "2", Address: "3"}},
		{name: "missing nik", req: api.CompleteProfileRequest{FullName: "A", Phone: "2", Address: "3"}},
		{name: "missing phone", req: api.CompleteProfileRequest{FullName: "A", NIK: "1", Address: "3"}},
		{name: "missing address", req: api.CompleteProfileRequest{FullName: "A", NIK: "1", Phone: "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CompleteProfile(rec, authedRequest(t, http.MethodPost, "/api/user/complete-profile", tt.req, principalFor(user)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCompleteProfile_NoPrincipal(t *testing.T) {
	users := newMockUserStorage()
	h := NewUserHandler(testLogger(), users, newMockProfileStorage(users))

	rec := httptest.NewRecorder()
	h.CompleteProfile(rec, authedRequest(t, http.MethodPost, "/api/user/complete-profile", api.CompleteProfileRequest{}, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfile_BeforeCompletion(t *testing.T) {
	users := newMockUserStorage()
	h := NewUserHandler(testLogger(), users, newMockProfileStorage(users))
	user := seedUser(t, users, "a@x.com", "secret123", models.RoleUser)

	rec := httptest.NewRecorder()
	h.Profile(rec, authedRequest(t, http.MethodGet, "/api/user/profile", nil, principalFor(user)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, models.StatusPending, resp.User.Status)
	assert.False(t, resp.User.IsVerified)
	assert.Nil(t, resp.User.FullName)
	assert.Nil(t, resp.User.NIK)
	assert.Nil(t, resp.User.Phone)
	assert.Nil(t, resp.User.Address)
}

func TestProfile_UndecryptableFieldIsNull(t *testing.T) {
	users := newMockUserStorage()
	profiles := newMockProfileStorage(users)
	h := NewUserHandler(testLogger(), users, profiles)
	user := seedUser(t, users, "a@x.com", "secret123", models.RoleUser)

	rec := httptest.NewRecorder()
	h.CompleteProfile(rec, authedRequest(t, http.MethodPost, "/api/user/complete-profile", api.CompleteProfileRequest{
		FullName: "Alice Hartono",
		NIK:      "3174012345678901",
		Phone:    "+62-812-0000-0000",
		Address:  "Jl. Sudirman 1, Jakarta",
	}, principalFor(user)))
	require.Equal(t, http.StatusOK, rec.Code)

	// Corrupt one stored field. The rest of the profile must still decrypt.
	stored, err := profiles.GetProfile(t.Context(), user.ID)
	require.NoError(t, err)
	stored.EncryptedPhone = "not:a:ciphertext"

	rec = httptest.NewRecorder()
	h.Profile(rec, authedRequest(t, http.MethodGet, "/api/user/profile", nil, principalFor(user)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.User.Phone)
	require.NotNil(t, resp.User.FullName)
	assert.Equal(t, "Alice Hartono", *resp.User.FullName)
}

func TestVerificationStatus(t *testing.T) {
	users := newMockUserStorage()
	profiles := newMockProfileStorage(users)
	h := NewUserHandler(testLogger(), users, profiles)
	user := seedUser(t, users, "a@x.com", "secret123", models.RoleUser)

	rec := httptest.NewRecorder()
	h.VerificationStatus(rec, authedRequest(t, http.MethodGet, "/api/user/verification-status", nil, principalFor(user)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.VerificationStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusPending, resp.Status)

	// Completing the profile flips the account status.
	recComplete := httptest.NewRecorder()
	h.CompleteProfile(recComplete, authedRequest(t, http.MethodPost, "/api/user/complete-profile", api.CompleteProfileRequest{
		FullName: "A", NIK: "1", Phone: "2", Address: "3",
	}, principalFor(user)))
	require.Equal(t, http.StatusOK, recComplete.Code)

	rec = httptest.NewRecorder()
	h.VerificationStatus(rec, authedRequest(t, http.MethodGet, "/api/user/verification-status", nil, principalFor(user)))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusVerified, resp.Status)
}
