package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dom/news-api/internal/config"
	"github.com/dom/news-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature, malformed, expired, wrong kind.
var ErrInvalidToken = errors.New("invalid token")

// TokenKind selects the secret and lifetime used for a token.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Identity is what a verified token proves about its bearer.
type Identity struct {
	UserID uuid.UUID
	Role   domain.Role
}

// Claims is the signed payload of both token kinds.
type Claims struct {
	UserID string      `json:"userId"`
	Role   domain.Role `json:"role"`
	Kind   TokenKind   `json:"typ"`
	jwt.RegisteredClaims
}

type keyConfig struct {
	secret []byte
	ttl    time.Duration
}

// TokenManager is the only component that mints or validates session tokens.
type TokenManager struct {
	keys map[TokenKind]keyConfig
	now  func() time.Time
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		keys: map[TokenKind]keyConfig{
			AccessToken:  {secret: []byte(cfg.AccessTokenSecret), ttl: cfg.AccessTokenTTL},
			RefreshToken: {secret: []byte(cfg.RefreshTokenSecret), ttl: cfg.RefreshTokenTTL},
		},
		now: time.Now,
	}
}

// WithClock returns a copy of m that reads time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	return &TokenManager{keys: m.keys, now: now}
}

// TTL returns the configured lifetime for kind.
func (m *TokenManager) TTL(kind TokenKind) time.Duration {
	return m.keys[kind].ttl
}

func (m *TokenManager) IssueAccess(id Identity) (string, error) {
	return m.issue(id, AccessToken)
}

func (m *TokenManager) IssueRefresh(id Identity) (string, error) {
	return m.issue(id, RefreshToken)
}

func (m *TokenManager) issue(id Identity, kind TokenKind) (string, error) {
	key, ok := m.keys[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := m.now()
	claims := Claims{
		UserID: id.UserID.String(),
		Role:   id.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key.secret)
}

// Verify checks signature, expiry and kind. Any failure yields ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string, kind TokenKind) (Identity, error) {
	key, ok := m.keys[kind]
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Kind != kind || !claims.Role.IsValid() {
		return Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Identity{UserID: userID, Role: claims.Role}, nil
}
