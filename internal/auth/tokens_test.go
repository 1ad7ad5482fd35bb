package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/models"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "vidtweet-test",
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testTokenConfig())
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceValidation(t *testing.T) {
	_, err := NewTokenService(TokenConfig{AccessSecret: "a"})
	require.Error(t, err)

	_, err = NewTokenService(TokenConfig{AccessSecret: "same", RefreshSecret: "same"})
	require.Error(t, err)
}

func TestTokenServiceAccessRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", FullName: "Alice A"}

	token, expires, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expires, 2*time.Second)

	claims, err := svc.Verify(token, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice A", claims.FullName)
	assert.Equal(t, KindAccess, claims.Kind)
}

func TestTokenServiceRefreshCarriesOnlyIdentity(t *testing.T) {
	svc := newTestTokenService(t)
	user := models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}

	token, _, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.Verify(token, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Email)
}

func TestTokenServiceRejectsKindMismatch(t *testing.T) {
	svc := newTestTokenService(t)
	user := models.User{ID: uuid.New()}

	access, _, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	refresh, _, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.Verify(access, KindRefresh)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Verify(refresh, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	svc.NowFunc = func() time.Time { return now }

	token, _, err := svc.IssueAccessToken(models.User{ID: uuid.New()})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Verify(token, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsForeignSignature(t *testing.T) {
	svc := newTestTokenService(t)

	otherCfg := testTokenConfig()
	otherCfg.AccessSecret = "someone-else"
	other, err := NewTokenService(otherCfg)
	require.NoError(t, err)

	token, _, err := other.IssueAccessToken(models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Verify(token, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify(token+"x", KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-token", KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRefreshTokensAreUnique(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Now().UTC()
	svc.NowFunc = func() time.Time { return now }
	user := models.User{ID: uuid.New()}

	first, _, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)
	second, _, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenServiceRequiresUserID(t *testing.T) {
	svc := newTestTokenService(t)
	_, _, err := svc.IssueAccessToken(models.User{})
	require.Error(t, err)
}
