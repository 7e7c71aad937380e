package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prperemyshlev/storefront/internal/domain"
)

const (
	accessSecret  = "access-secret-key-that-is-at-least-32-characters"
	refreshSecret = "refresh-secret-key-that-is-at-least-32-characters"
)

func newTestManager(now *time.Time) *JWTManager {
	return NewJWTManager(accessSecret, refreshSecret, 2*time.Hour, 7*24*time.Hour).
		WithClock(func() time.Time { return *now })
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	pair, err := m.Issue("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 7200, pair.ExpiresIn)

	access, err := m.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, domain.RoleAdmin, access.Role)
	assert.Equal(t, domain.TokenTypeAccess, access.TokenType)
	assert.WithinDuration(t, now.Add(2*time.Hour), access.ExpiresAt, time.Second)

	refresh, err := m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refresh.UserID)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), refresh.ExpiresAt, time.Second)
}

func TestIssueProducesDistinctRefreshTokens(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	a, err := m.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)
	b, err := m.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	pair, err := m.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = m.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	pair, err := m.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	now = now.Add(2*time.Hour + time.Minute)
	_, err = m.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	now = now.Add(7 * 24 * time.Hour)
	_, err = m.VerifyRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecretAndTampering(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)
	other := NewJWTManager("another-access-secret-that-is-32-chars-long", refreshSecret, time.Hour, time.Hour)

	pair, err := other.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)
	_, err = m.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	own, err := m.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)
	tampered := own.AccessToken[:len(own.AccessToken)-2] + "xx"
	_, err = m.VerifyAccess(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"typ":  "access",
		"exp":  now.Add(time.Hour).Unix(),
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.VerifyAccess(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashToken("token-a"))
	assert.NotEqual(t, a, HashToken("token-b"))
	assert.True(t, DigestsEqual(a, HashToken("token-a")))
	assert.False(t, DigestsEqual(a, HashToken("token-b")))
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.False(t, ValidateEmail("user@"))
	assert.True(t, ValidatePassword("123456"))
	assert.False(t, ValidatePassword("12345"))
	assert.True(t, ValidatePassword(strings.Repeat("a", 72)))
	assert.False(t, ValidatePassword(strings.Repeat("a", 73)))
	assert.False(t, ValidatePassword(strings.Repeat("é", 40)))
	assert.False(t, ValidateUserName("   "))
	assert.Equal(t, "user@example.com", SanitizeEmail("  User@Example.COM "))
}
