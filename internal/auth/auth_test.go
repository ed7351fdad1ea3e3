package auth

import (
	"ctchen222/pokedex/internal/apperr"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, p := range []string{"pikachu123", "", "ünïcødé pass", "a much longer passphrase with spaces"} {
		digest, err := h.Hash(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, digest)
		assert.True(t, h.Verify(p, digest), "password %q", p)
		assert.False(t, h.Verify(p+"x", digest), "password %q", p)
	}
}

func TestBcryptHasher_SaltedDigests(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	d1, err := h.Hash("pikachu123")
	require.NoError(t, err)
	d2, err := h.Hash("pikachu123")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("pikachu123", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("pikachu123", ""))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m, err := NewTokenManager("secret", "HS256", 30*time.Minute)
	require.NoError(t, err)
	m.WithClock(fixedClock(now))

	token, expiresAt, err := m.IssueDefault("ash")
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), expiresAt)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ash", claims.Subject)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenManager_Expired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m, err := NewTokenManager("secret", "HS256", time.Minute)
	require.NoError(t, err)
	m.WithClock(fixedClock(now))

	token, _, err := m.Issue("ash", time.Minute)
	require.NoError(t, err)

	m.WithClock(fixedClock(now.Add(2 * time.Minute)))
	_, err = m.Validate(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestTokenManager_Tampered(t *testing.T) {
	m, err := NewTokenManager("secret", "HS256", time.Minute)
	require.NoError(t, err)
	other, err := NewTokenManager("other-secret", "HS256", time.Minute)
	require.NoError(t, err)

	token, _, err := other.IssueDefault("ash")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongAlgorithm(t *testing.T) {
	m, err := NewTokenManager("secret", "HS256", time.Minute)
	require.NoError(t, err)
	hs512, err := NewTokenManager("secret", "HS512", time.Minute)
	require.NoError(t, err)

	token, _, err := hs512.IssueDefault("ash")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_NoneAlgorithmAndGarbage(t *testing.T) {
	m, err := NewTokenManager("secret", "HS256", time.Minute)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "ash",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, token := range []string{unsigned, "", "not.a.token"} {
		_, err := m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestTokenManager_MissingExpiry(t *testing.T) {
	m, err := NewTokenManager("secret", "HS256", time.Minute)
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ash"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_RejectsUnsupported(t *testing.T) {
	_, err := NewTokenManager("secret", "RS256", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenManager("", "HS256", time.Minute)
	assert.Error(t, err)
}
