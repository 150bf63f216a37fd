package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt returns the exp claim of a JWT-shaped credential. ok is false
// for opaque tokens, unparseable tokens, and JWTs without an exp claim.
func ExpiresAt(credential string) (time.Time, bool) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether a JWT-shaped credential's expiry has passed.
// Opaque credentials are never considered expired here; the backend's 401
// remains authoritative for them.
func Expired(credential string, now time.Time) bool {
	exp, ok := ExpiresAt(credential)
	return ok && now.After(exp)
}
