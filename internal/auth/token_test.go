package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_SignVerify(t *testing.T) {
	m := NewTokenManager("secret", "gastos-api", time.Hour)

	token, err := m.Sign("64f0c0ffee0000000000beef")
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c0ffee0000000000beef", id)
}

func TestTokenManager_ClaimsCarryOnlyIdentity(t *testing.T) {
	m := NewTokenManager("secret", "gastos-api", time.Hour)
	token, err := m.Sign("u1")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims["id"])
	for k := range claims {
		assert.Contains(t, []string{"id", "jti", "iss", "iat", "exp"}, k)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", "gastos-api", time.Hour)
	good, err := m.Sign("u1")
	require.NoError(t, err)

	expiredMgr := NewTokenManager("secret", "gastos-api", time.Hour)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredMgr.Sign("u1")
	require.NoError(t, err)

	otherSecret, err := NewTokenManager("other", "gastos-api", time.Hour).Sign("u1")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id":  "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"empty":        "",
		"malformed":    "not.a.jwt",
		"expired":      expired,
		"other secret": otherSecret,
		"no exp":       noExp,
		"no id":        noID,
		"wrong alg":    hs512,
		"tampered":     tampered,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
