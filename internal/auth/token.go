package auth

import (
	"ctchen222/pokedex/internal/apperr"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers expired, tampered, malformed and wrongly signed tokens alike.
var ErrInvalidToken = apperr.Auth("could not validate credentials")

// Claims is the payload of an access token. The subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer issues and validates access tokens.
//
//go:generate mockgen -destination=../mocks/mock_token_issuer.go -package=mocks ctchen222/pokedex/internal/auth TokenIssuer
type TokenIssuer interface {
	IssueDefault(subject string) (string, time.Time, error)
	Validate(token string) (*Claims, error)
}

type TokenManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager signing with the named HMAC algorithm
// (HS256, HS384 or HS512).
func NewTokenManager(secret, algorithm string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}
	return &TokenManager{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source; used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue signs a token for subject expiring ttl from now.
func (m *TokenManager) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) IssueDefault(subject string) (string, time.Time, error) {
	return m.Issue(subject, m.ttl)
}

func (m *TokenManager) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		slog.Debug("Rejected access token", "error", err)
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		slog.Debug("Rejected access token without subject")
		return nil, ErrInvalidToken
	}
	return claims, nil
}
