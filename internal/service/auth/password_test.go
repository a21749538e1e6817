package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndCompare(t *testing.T) {
	t.Parallel()

	// MinCost keeps the test fast; production uses the configured cost
	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("a-test-password")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "a-test-password", hashed)

	assert.NoError(t, verifier.Compare(hashed, "a-test-password"))
	assert.Error(t, verifier.Compare(hashed, "a-wrong-password"))
	assert.Error(t, verifier.Compare("not-a-bcrypt-hash", "a-test-password"))
}

func TestBcryptHasherDefaultCost(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptHasher(6)
	assert.Equal(t, 6, hasher.cost)
}
