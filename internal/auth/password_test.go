package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPassword_Bcrypt(t *testing.T) {
	hash, err := HashPassword("segredo")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo", hash)

	assert.True(t, CheckPassword(hash, "segredo"))
	assert.False(t, CheckPassword(hash, "errado"))
}

func TestCheckPassword_LegacyPlaintext(t *testing.T) {
	assert.True(t, CheckPassword("segredo", "segredo"))
	assert.False(t, CheckPassword("segredo", "Segredo"))
	assert.False(t, CheckPassword("", "x"))
}

func TestHashPassword_LongerThanBcryptLimit(t *testing.T) {
	long := strings.Repeat("é", 40) // 80 bytes
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, long))
	// Differs only after byte 72, which bcrypt alone would ignore.
	assert.False(t, CheckPassword(hash, strings.Repeat("é", 36)+"eeee"))
	assert.False(t, CheckPassword(hash, strings.Repeat("é", 41)))
}

func TestHashPassword_ExactlyAtLimit(t *testing.T) {
	pw := strings.Repeat("a", 72)
	hash, err := HashPassword(pw)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, pw))
}
