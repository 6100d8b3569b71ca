package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-collection-api/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()

	svc, err := NewTokenService("test-secret", 24*time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

var testIdentity = model.Identity{UserID: 7, Username: "user", Role: "admin"}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	token, issued, err := svc.Issue(testIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, clock.now, issued.IssuedAt)
	assert.Equal(t, clock.now.Add(24*time.Hour), issued.ExpiresAt)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, claims.Identity)
	assert.True(t, claims.ExpiresAt.Equal(issued.ExpiresAt))
}

func TestTokenExpiresAtBoundary(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	svc := newTestTokenService(t, clock)

	token, issued, err := svc.Issue(testIdentity)
	require.NoError(t, err)

	clock.now = issued.ExpiresAt.Add(-time.Second)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock.now = issued.ExpiresAt
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, model.ErrInvalidToken)

	clock.now = issued.ExpiresAt.Add(time.Hour)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenTamperingFails(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	token, _, err := svc.Issue(testIdentity)
	require.NoError(t, err)

	// The last character of each base64url segment may only carry padding
	// bits, so every position except segment ends is flipped.
	for i := 0; i < len(token); i++ {
		if token[i] == '.' || i == len(token)-1 || token[i+1] == '.' {
			continue
		}

		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := svc.Verify(tampered)
		require.ErrorIs(t, err, model.ErrInvalidToken, "position %d", i)
	}
}

func TestTokenWrongSecretFails(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	svc := newTestTokenService(t, clock)
	other, err := NewTokenService("other-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	token, _, err := other.Issue(testIdentity)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	svc := newTestTokenService(t, clock)

	claims := jwt.MapClaims{
		"sub":      "7",
		"username": "user",
		"role":     "admin",
		"exp":      clock.now.Add(time.Hour).Unix(),
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(unsigned)
	require.ErrorIs(t, err, model.ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenRequiresClaims(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	svc := newTestTokenService(t, clock)

	sign := func(claims jwt.MapClaims) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return signed
	}
	exp := clock.now.Add(time.Hour).Unix()

	cases := map[string]jwt.MapClaims{
		"no exp":       {"sub": "7", "username": "user", "role": "admin"},
		"bad subject":  {"sub": "seven", "username": "user", "role": "admin", "exp": exp},
		"no username":  {"sub": "7", "role": "admin", "exp": exp},
		"no role":      {"sub": "7", "username": "user", "exp": exp},
		"zero subject": {"sub": "0", "username": "user", "role": "admin", "exp": exp},
	}
	for name, claims := range cases {
		_, err := svc.Verify(sign(claims))
		require.ErrorIs(t, err, model.ErrInvalidToken, name)
	}

	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestNewTokenServiceValidates(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("", time.Hour)
	require.Error(t, err)

	_, err = NewTokenService("secret", 0)
	require.Error(t, err)
}
