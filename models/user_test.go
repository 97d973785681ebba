package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndComparePassword(t *testing.T) {
	var user User
	require.NoError(t, user.SetPassword("Password123"))

	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Password123", user.PasswordHash)
	assert.True(t, user.ComparePassword("Password123"))
	assert.False(t, user.ComparePassword("password123"))
	assert.False(t, user.ComparePassword(""))
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{"RESIDENT", "OFFICIAL", "JOURNALIST", "ADMIN"} {
		assert.True(t, ValidRole(role), role)
	}
	assert.False(t, ValidRole("resident"))
	assert.False(t, ValidRole("SUPERADMIN"))
	assert.False(t, ValidRole(""))
}
