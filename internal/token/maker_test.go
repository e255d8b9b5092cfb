package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_at_least_32_chars_long"

func TestJWTMaker_GenerateAndParse(t *testing.T) {
	maker := NewJWTMaker(testSecret, 15*time.Minute)

	tests := []struct {
		name     string
		userID   string
		userType string
	}{
		{name: "registered user", userID: "a1b2c3", userType: "registered"},
		{name: "guest user", userID: "guest-42", userType: "guest"},
		{name: "social user", userID: "social-7", userType: "social"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := maker.Generate(tt.userID, tt.userType)
			require.NoError(t, err)
			assert.NotEmpty(t, tok)

			claims, err := maker.Parse(tok)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.userType, claims.UserType)
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker(testSecret, 15*time.Minute)

	valid, err := maker.Generate("user-1", "registered")
	require.NoError(t, err)

	expiredMaker := NewJWTMaker(testSecret, -time.Hour)
	expired, err := expiredMaker.Generate("user-1", "registered")
	require.NoError(t, err)

	otherMaker := NewJWTMaker("another_secret_key_that_is_long_enough", 15*time.Minute)
	wrongSecret, err := otherMaker.Generate("user-1", "registered")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "not.a.token"},
		{name: "expired token", token: expired},
		{name: "wrong secret", token: wrongSecret},
		{name: "tampered token", token: valid + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.Parse(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
