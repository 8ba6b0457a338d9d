package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// skewBuffer is subtracted from the claimed expiry so a token that is about
// to expire is never sent on a request that would land after it does.
const skewBuffer = 5 * time.Second

// Claims is the decoded payload of a bearer token. The token is never
// verified client-side; trust comes from the server rejecting bad tokens.
type Claims struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// Decode extracts the claim set from a bearer token without verifying the
// signature. Returns an error for anything that is not a well-formed
// three-part token with a JSON claim set.
func Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt returns the expiry instant embedded in the token. The second
// return is false when the token cannot be decoded or carries no expiry claim.
func ExpiresAt(raw string) (time.Time, bool) {
	claims, err := Decode(raw)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token should be treated as expired at now.
// Undecodable tokens and tokens without an expiry claim count as expired.
func Expired(raw string, now time.Time) bool {
	exp, ok := ExpiresAt(raw)
	if !ok {
		return true
	}
	return !now.Before(exp.Add(-skewBuffer))
}

// Skew returns the clock-skew buffer applied by Expired.
func Skew() time.Duration {
	return skewBuffer
}
