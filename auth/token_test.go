package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.SignSession("64f0c1d2e3a4b5c6d7e8f901", AccessTokenTTL)
	require.NoError(t, err)

	claims, err := svc.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c1d2e3a4b5c6d7e8f901", claims.UserID)
}

func TestActivationTokenCarriesCredentials(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.SignActivation("buyer@example.com", "$2a$12$fakehash")
	require.NoError(t, err)

	claims, err := svc.ParseActivation(token)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, "$2a$12$fakehash", claims.Password)
}

func TestResetTokenWrapsCode(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.SignReset("a1b2c3d4e5f6")
	require.NoError(t, err)

	claims, err := svc.ParseReset(token)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f6", claims.ResetCode)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.SignSession("64f0c1d2e3a4b5c6d7e8f901", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ParseSession(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	svc := NewTokenService("test-secret")
	other := NewTokenService("another-secret")

	token, err := other.SignSession("64f0c1d2e3a4b5c6d7e8f901", AccessTokenTTL)
	require.NoError(t, err)

	_, err = svc.ParseSession(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsWrongPurposeToken(t *testing.T) {
	svc := NewTokenService("test-secret")

	session, err := svc.SignSession("64f0c1d2e3a4b5c6d7e8f901", AccessTokenTTL)
	require.NoError(t, err)
	activation, err := svc.SignActivation("buyer@example.com", "$2a$12$fakehash")
	require.NoError(t, err)
	reset, err := svc.SignReset("a1b2c3d4e5f6")
	require.NoError(t, err)

	// An activation token is mintable by any anonymous caller and decodes
	// into ResetClaims with an empty code, so the reset parser in particular
	// must refuse it.
	_, err = svc.ParseReset(activation)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.ParseReset(session)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ParseActivation(session)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.ParseActivation(reset)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ParseSession(activation)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.ParseSession(reset)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.SignSession("64f0c1d2e3a4b5c6d7e8f901", AccessTokenTTL)
	require.NoError(t, err)

	_, err = svc.ParseSession(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ParseSession("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
