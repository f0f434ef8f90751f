package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	for _, password := range []string{"abcd", "hunter2", "correct horse battery staple"} {
		hashed, err := HashPassword(password)
		require.NoError(t, err)
		assert.NotEqual(t, password, hashed)
		assert.True(t, CheckPassword(password, hashed))
	}
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.False(t, CheckPassword("hunter3", hashed))
	assert.False(t, CheckPassword("", hashed))
	assert.False(t, CheckPassword("hunter2 ", hashed))
}

func TestCheckPasswordRejectsGarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("hunter2", "not-a-bcrypt-digest"))
}
