package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("64f1b2c3d4e5f6a7b8c9d0e1", "RESIDENT")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2c3d4e5f6a7b8c9d0e1", userID)
	assert.Equal(t, "RESIDENT", role)
}

func TestGenerateTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateToken("64f1b2c3d4e5f6a7b8c9d0e1", "RESIDENT")
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("64f1b2c3d4e5f6a7b8c9d0e1", "ADMIN")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, _, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, _, err := ParseToken("not.a.token")
	assert.Error(t, err)

	_, _, err = ParseToken("")
	assert.Error(t, err)
}
