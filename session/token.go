package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Access tokens are JWTs minted by the backend with sub/role/id/exp claims.
// The signing secret never leaves the server, so the client only ever peeks
// at claims without verifying the signature. An unparsable token simply
// reports no expiry and falls back to reactive 401 handling.
func tokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
