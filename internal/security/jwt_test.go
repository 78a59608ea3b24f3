package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", "stocksync")
	require.NoError(t, err)

	token, err := m.Generate("cron", []string{RoleSync}, time.Hour)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "cron", claims.Subject)
	assert.True(t, m.HasRole(claims, RoleSync))
	assert.False(t, m.HasRole(claims, "other"))
}

func TestJWTManager_AdminHasAllRoles(t *testing.T) {
	m, _ := NewJWTManager("secret", "stocksync")
	assert.True(t, m.HasRole(&Claims{Roles: []string{"admin"}}, RoleSync))
}

func TestJWTManager_Expired(t *testing.T) {
	m, _ := NewJWTManager("secret", "stocksync")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Generate("cron", nil, time.Hour)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongSecretOrIssuer(t *testing.T) {
	signer, _ := NewJWTManager("other-secret", "stocksync")
	token, err := signer.Generate("cron", nil, time.Hour)
	require.NoError(t, err)

	m, _ := NewJWTManager("secret", "stocksync")
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, _ := NewJWTManager("secret", "someone-else")
	token, err = foreign.Generate("cron", nil, time.Hour)
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsNoneAlg(t *testing.T) {
	m, _ := NewJWTManager("secret", "stocksync")

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "stocksync", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Validate(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	_, err := NewJWTManager("", "x")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
