package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, expiresIn, err := tm.GenerateAccessToken("u1", "alice")
	require.NoError(t, err)
	require.Equal(t, int64(3600), expiresIn)

	userID, err := tm.ResolveUser(token)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", time.Hour).GenerateAccessToken("u1", "alice")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)
	token, _, err := tm.GenerateAccessToken("u1", "alice")
	require.NoError(t, err)

	_, err = tm.ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc")
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	_, err = ExtractTokenFromHeader("Basic abc")
	require.Error(t, err)
	_, err = ExtractTokenFromHeader("Bearer ")
	require.Error(t, err)
}

func TestPasswordManager(t *testing.T) {
	pm := NewPasswordManager(bcrypt.MinCost)

	_, err := pm.HashPassword("short")
	require.ErrorIs(t, err, ErrWeakPassword)

	hash, err := pm.HashPassword("correct horse")
	require.NoError(t, err)
	require.NoError(t, pm.ComparePassword(hash, "correct horse"))
	require.Error(t, pm.ComparePassword(hash, "wrong horse"))
}
