package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/logging"
	"github.com/Shivam1272/backend-revision/internal/models"
)

var (
	// ErrSessionNotFound indicates the refresh token does not map to an active session.
	ErrSessionNotFound = fmt.Errorf("%w: session not found", apperr.ErrUnauthorized)
	// ErrRefreshTokenSuperseded indicates the presented refresh token is no longer the stored one.
	ErrRefreshTokenSuperseded = fmt.Errorf("%w: refresh token superseded", apperr.ErrUnauthorized)
	// ErrInvalidCredentials indicates the password did not match.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
)

// CredentialStore persists user credentials and the single active refresh token per user.
// Implementations report missing users with apperr.ErrNotFound and a failed
// SwapRefreshToken comparison with apperr.ErrConflict.
type CredentialStore interface {
	FindByLogin(ctx context.Context, login string) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) error
}

// Manager drives the session lifecycle: login, logout, refresh rotation and password change.
type Manager struct {
	tokens *TokenService
	store  CredentialStore
}

// NewManager constructs a Manager minting tokens with tokens and persisting sessions in store.
func NewManager(tokens *TokenService, store CredentialStore) *Manager {
	if tokens == nil {
		panic("auth: token service must not be nil")
	}
	if store == nil {
		panic("auth: credential store must not be nil")
	}
	return &Manager{tokens: tokens, store: store}
}

// Login authenticates by username or email and starts a new session, replacing any prior one.
func (m *Manager) Login(ctx context.Context, login, password string) (models.PublicUser, models.SessionTokens, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return models.PublicUser{}, models.SessionTokens{}, fmt.Errorf("%w: username or email and password are required", apperr.ErrInvalidInput)
	}

	user, err := m.store.FindByLogin(ctx, login)
	if err != nil {
		return models.PublicUser{}, models.SessionTokens{}, fmt.Errorf("login lookup: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		logging.FromContext(ctx).Warn("login password mismatch", "userId", user.ID)
		return models.PublicUser{}, models.SessionTokens{}, ErrInvalidCredentials
	}

	tokens, err := m.issue(user)
	if err != nil {
		return models.PublicUser{}, models.SessionTokens{}, err
	}

	if err := m.store.SetRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return models.PublicUser{}, models.SessionTokens{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return user.Public(), tokens, nil
}

// Logout ends the user's session. Logging out without an active session is not an error.
func (m *Manager) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := m.store.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// Refresh exchanges the current refresh token for a new token pair. The presented token is
// invalid afterwards, and of two concurrent refreshes with the same token only one succeeds.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return models.SessionTokens{}, ErrSessionNotFound
	}

	claims, err := m.tokens.Verify(refreshToken, KindRefresh)
	if err != nil {
		return models.SessionTokens{}, err
	}

	user, err := m.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.SessionTokens{}, ErrSessionNotFound
		}
		return models.SessionTokens{}, fmt.Errorf("refresh lookup: %w", err)
	}

	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		logging.FromContext(ctx).Warn("refresh token does not match active session", "userId", user.ID)
		return models.SessionTokens{}, ErrRefreshTokenSuperseded
	}

	tokens, err := m.issue(user)
	if err != nil {
		return models.SessionTokens{}, err
	}

	if err := m.store.SwapRefreshToken(ctx, user.ID, refreshToken, tokens.RefreshToken); err != nil {
		switch {
		case errors.Is(err, apperr.ErrConflict):
			return models.SessionTokens{}, ErrRefreshTokenSuperseded
		case errors.Is(err, apperr.ErrNotFound):
			return models.SessionTokens{}, ErrSessionNotFound
		}
		return models.SessionTokens{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	return tokens, nil
}

// ChangePassword replaces the password after verifying the current one.
// Outstanding sessions stay valid until they expire or the user logs out.
func (m *Manager) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", apperr.ErrInvalidInput)
	}

	user, err := m.store.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password lookup: %w", err)
	}

	if !CheckPassword(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	if err := ValidatePassword(next); err != nil {
		return err
	}

	if err := m.store.UpdatePassword(ctx, userID, next); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Authenticate verifies an access token and returns the identity it carries.
func (m *Manager) Authenticate(accessToken string) (Claims, error) {
	return m.tokens.Verify(accessToken, KindAccess)
}

func (m *Manager) issue(user models.User) (models.SessionTokens, error) {
	access, accessExpires, err := m.tokens.IssueAccessToken(user)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, refreshExpires, err := m.tokens.IssueRefreshToken(user)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return models.SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpires,
	}, nil
}
