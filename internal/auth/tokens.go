package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// ErrInvalidToken indicates a token failed signature, expiry, issuer or kind checks.
var ErrInvalidToken = fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)

// TokenKind distinguishes the two classes of bearer tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// TokenConfig configures signing secrets and lifetimes for issued tokens.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Claims is the verified content of a token.
type Claims struct {
	UserID   uuid.UUID
	Username string
	Email    string
	FullName string
	Kind     TokenKind
	TokenID  string
	Expires  time.Time
}

type tokenClaims struct {
	Kind     TokenKind `json:"typ"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	FullName string    `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed access and refresh tokens.
// Access and refresh tokens are signed with distinct secrets.
type TokenService struct {
	cfg     TokenConfig
	NowFunc func() time.Time
}

// NewTokenService constructs a TokenService. Both secrets are required and must differ.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("auth: access and refresh secrets must be provided")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("auth: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 10 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "vidtweet"
	}
	return &TokenService{cfg: cfg}, nil
}

// IssueAccessToken produces a short-lived token carrying the user's identity and profile basics.
func (s *TokenService) IssueAccessToken(user models.User) (string, time.Time, error) {
	claims := tokenClaims{
		Kind:     KindAccess,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
	return s.sign(user.ID, claims, s.cfg.AccessTTL, s.cfg.AccessSecret)
}

// IssueRefreshToken produces a longer-lived token carrying only the user's identity.
func (s *TokenService) IssueRefreshToken(user models.User) (string, time.Time, error) {
	return s.sign(user.ID, tokenClaims{Kind: KindRefresh}, s.cfg.RefreshTTL, s.cfg.RefreshSecret)
}

// Verify validates the token as the expected kind and returns its claims.
func (s *TokenService) Verify(token string, kind TokenKind) (Claims, error) {
	secret, err := s.secretFor(kind)
	if err != nil {
		return Claims{}, err
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{},
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Kind != kind {
		return Claims{}, fmt.Errorf("%w: expected %s token", ErrInvalidToken, kind)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	return Claims{
		UserID:   userID,
		Username: claims.Username,
		Email:    claims.Email,
		FullName: claims.FullName,
		Kind:     claims.Kind,
		TokenID:  claims.ID,
		Expires:  claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenService) sign(userID uuid.UUID, claims tokenClaims, ttl time.Duration, secret string) (string, time.Time, error) {
	if userID == uuid.Nil {
		return "", time.Time{}, errors.New("auth: user id must be provided")
	}

	now := s.now()
	expires := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", claims.Kind, err)
	}
	return signed, expires, nil
}

func (s *TokenService) secretFor(kind TokenKind) (string, error) {
	switch kind {
	case KindAccess:
		return s.cfg.AccessSecret, nil
	case KindRefresh:
		return s.cfg.RefreshSecret, nil
	default:
		return "", fmt.Errorf("%w: unknown token kind %q", ErrInvalidToken, kind)
	}
}

func (s *TokenService) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
