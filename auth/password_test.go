package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePasswords(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	assert.True(t, ComparePasswords("hunter2", hash))
	assert.False(t, ComparePasswords("Hunter2", hash))
	assert.False(t, ComparePasswords("", hash))
}

func TestComparePasswordsBadHash(t *testing.T) {
	assert.False(t, ComparePasswords("hunter2", "not-a-bcrypt-hash"))
}
