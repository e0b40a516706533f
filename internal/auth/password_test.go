package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, VerifyPassword("pw123456", hash))
	assert.False(t, VerifyPassword("pw1234567", hash))
}

func TestHashPassword_SaltsEachHash(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword("same-password", a))
	assert.True(t, VerifyPassword("same-password", b))
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+1), bcrypt.MinCost)
	require.Error(t, err)
	assert.True(t, IsPasswordTooLong(err))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, VerifyPassword("pw123456", ""))
	assert.False(t, VerifyPassword("pw123456", "not-a-bcrypt-hash"))
}
