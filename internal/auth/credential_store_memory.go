package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// NewInMemoryCredentialStore returns a CredentialStore backed by an in-memory map.
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{users: make(map[uuid.UUID]models.User)}
}

// InMemoryCredentialStore implements CredentialStore for tests and local development.
type InMemoryCredentialStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

// Create stores a new user, hashing password. Usernames and emails are unique case-insensitively.
func (s *InMemoryCredentialStore) Create(_ context.Context, user models.User, password string) (models.User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	user.PasswordHash = hashed
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.User{}, fmt.Errorf("user %w", apperr.ErrConflict)
		}
	}
	s.users[user.ID] = user
	return user, nil
}

// FindByLogin retrieves a user by username or email.
func (s *InMemoryCredentialStore) FindByLogin(_ context.Context, login string) (models.User, error) {
	login = strings.ToLower(login)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return models.User{}, fmt.Errorf("user %w", apperr.ErrNotFound)
}

// FindByID retrieves a user by identifier.
func (s *InMemoryCredentialStore) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	user, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return models.User{}, fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	return user, nil
}

// SetRefreshToken overwrites the stored refresh token.
func (s *InMemoryCredentialStore) SetRefreshToken(_ context.Context, id uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	user.RefreshToken = token
	s.users[id] = user
	return nil
}

// SwapRefreshToken replaces the stored refresh token only if it still equals current.
func (s *InMemoryCredentialStore) SwapRefreshToken(_ context.Context, id uuid.UUID, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	if current == "" || user.RefreshToken != current {
		return fmt.Errorf("refresh token %w", apperr.ErrConflict)
	}
	user.RefreshToken = next
	s.users[id] = user
	return nil
}

// UpdatePassword stores the hash of password.
func (s *InMemoryCredentialStore) UpdatePassword(_ context.Context, id uuid.UUID, password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %w", apperr.ErrNotFound)
	}
	user.PasswordHash = hashed
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return nil
}

// RefreshTokenOf reports the stored refresh token for id. Useful for tests.
func (s *InMemoryCredentialStore) RefreshTokenOf(id uuid.UUID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id].RefreshToken
}

var _ CredentialStore = (*InMemoryCredentialStore)(nil)
