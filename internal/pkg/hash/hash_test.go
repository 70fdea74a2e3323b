package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	hashed, err := h.Hash("123456")
	require.NoError(t, err)

	assert.NotEqual(t, "123456", hashed)
	assert.NotContains(t, hashed, "123456")
	assert.True(t, h.Verify("123456", hashed))
	assert.False(t, h.Verify("654321", hashed))
}

func TestHash_FreshSaltEachCall(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	h1, err := h.Hash("same-secret")
	require.NoError(t, err)
	h2, err := h.Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "bcrypt salts every hash")
	assert.True(t, h.Verify("same-secret", h1))
	assert.True(t, h.Verify("same-secret", h2))
}

func TestVerify_GarbageHash(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	assert.False(t, h.Verify("anything", "not-a-bcrypt-hash"))
}
