package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenExpiry(t *testing.T) {
	wantExp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": wantExp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	exp, ok := tokenExpiry(raw)
	require.True(t, ok)
	require.WithinDuration(t, wantExp, exp, time.Second)
}

func TestTokenExpiryWithoutExpClaim(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@example.com",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, ok := tokenExpiry(raw)
	require.False(t, ok)
}

func TestTokenExpiryGarbage(t *testing.T) {
	_, ok := tokenExpiry("not-a-jwt")
	require.False(t, ok)
}
