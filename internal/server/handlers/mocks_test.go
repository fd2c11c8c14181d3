package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage is a hand-written in-memory UserStorage.
type mockUserStorage struct {
	mu          sync.Mutex
	users       map[string]*models.User // email -> User
	profiles    map[string]bool         // userID -> has profile
	createError error
	getError    error
	resetCalls  []resetCall
}

type resetCall struct {
	email     string
	token     string
	expiresAt time.Time
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{
		users:    make(map[string]*models.User),
		profiles: make(map[string]bool),
	}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrEmailTaken
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return storage.ErrUserNotFound
	}
	user.ResetToken = token
	user.ResetExpiresAt = &expiresAt
	m.resetCalls = append(m.resetCalls, resetCall{email: email, token: token, expiresAt: expiresAt})
	return nil
}

func (m *mockUserStorage) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	var result []*models.UserSummary
	for _, user := range m.users {
		result = append(result, m.summaryLocked(user))
	}
	return result, nil
}

func (m *mockUserStorage) GetUserSummary(ctx context.Context, userID string) (*models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == userID {
			return m.summaryLocked(user), nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) summaryLocked(user *models.User) *models.UserSummary {
	return &models.UserSummary{
		ID:         user.ID,
		Email:      user.Email,
		Role:       user.Role,
		Status:     user.Status,
		CreatedAt:  user.CreatedAt,
		HasProfile: m.profiles[user.ID],
	}
}

// mockProfileStorage is a hand-written in-memory ProfileStorage. It mimics
// the transactional status flip by reaching into the paired user storage.
type mockProfileStorage struct {
	mu       sync.Mutex
	users    *mockUserStorage
	profiles map[string]*models.Profile
	getError error
}

func newMockProfileStorage(users *mockUserStorage) *mockProfileStorage {
	return &mockProfileStorage{
		users:    users,
		profiles: make(map[string]*models.Profile),
	}
}

func (m *mockProfileStorage) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, storage.ErrProfileNotFound
	}
	return profile, nil
}

func (m *mockProfileStorage) CompleteProfile(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile

	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	for _, user := range m.users.users {
		if user.ID == profile.UserID {
			user.Status = models.StatusVerified
			m.users.profiles[user.ID] = true
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockRevocationStore is a hand-written in-memory RevocationStore.
type mockRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMockRevocationStore() *mockRevocationStore {
	return &mockRevocationStore{revoked: make(map[string]time.Time)}
}

func (m *mockRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *mockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.revoked[tokenID]
	return ok && time.Now().Before(expiry), nil
}

func (m *mockRevocationStore) DeleteExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	now := time.Now()
	for id, expiry := range m.revoked {
		if !now.Before(expiry) {
			delete(m.revoked, id)
			deleted++
		}
	}
	return deleted, nil
}
