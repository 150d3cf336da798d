package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompareRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, hasher.Compare(hash, "correct-horse-battery"))
}

func TestCompareWrongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)

	err = hasher.Compare(hash, "wrong-horse-battery")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestCompareGarbageHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	assert.ErrorIs(t, hasher.Compare("not-a-bcrypt-hash", "anything-goes"), ErrPasswordMismatch)
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash("short")
	assert.Error(t, err)
}

func TestOutOfRangeCostFallsBackToDefault(t *testing.T) {
	hash, err := NewBcryptHasher(0).Hash("correct-horse-battery")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
