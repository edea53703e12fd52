package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/portfolio-cms/portfolio-api/internal/models"
)

var (
	// ErrMissingToken: no "Bearer <token>" Authorization header.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken: malformed token, bad signature or unexpected algorithm.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken: signature is fine but exp has passed.
	ErrExpiredToken = errors.New("token expired")
	// ErrNoSecret: signing or verifying was attempted without a key.
	ErrNoSecret = errors.New("token secret is empty")
)

// DefaultTTL is the session validity window.
const DefaultTTL = 24 * time.Hour

// Claims identify the administrator a session was issued to.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed HS256 token for the admin id
func GenerateAccessToken(secret, adminID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now().UTC()
	claims := Claims{
		ID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// ParseAccessToken validates raw and returns the admin id it carries.
// An empty secret rejects every token.
func ParseAccessToken(secret, raw string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, ErrNoSecret)
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// FromHeader extracts the token from an Authorization header value of the
// exact form "Bearer <token>".
func FromHeader(auth string) (string, error) {
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || scheme != "Bearer" || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMissingToken
	}
	return token, nil
}

// Manager issues and verifies session tokens with one secret and TTL.
type Manager struct {
	secret string
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: secret, ttl: ttl}
}

// Issue signs a session for the admin.
func (m *Manager) Issue(a *models.Admin) (string, error) {
	return GenerateAccessToken(m.secret, a.ID.Hex(), m.ttl)
}

// Verify returns the admin id embedded in raw.
func (m *Manager) Verify(ctx context.Context, raw string) (string, error) {
	return ParseAccessToken(m.secret, raw)
}
