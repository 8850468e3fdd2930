package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, CheckPassword(hash, "pw123456"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestHashPassword_FreshSalt(t *testing.T) {
	first, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPassword_CostOutOfRangeUsesDefault(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
