package backend

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when an access token cannot be parsed.
	ErrMalformedToken = errors.New("malformed access token")

	// ErrTokenExpired is returned when an access token's expiry has passed.
	ErrTokenExpired = errors.New("access token expired")
)

// TokenExpiry extracts the expiry timestamp from a backend-issued access
// token without verifying its signature; verification belongs to the
// backend, which holds the signing key. The application only needs to know
// whether a cached token is worth sending at all.
func TokenExpiry(accessToken string) (time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}
	return exp.Time, nil
}

// CheckToken reports whether the access token is well formed and not yet
// expired. It never validates the signature.
func CheckToken(accessToken string, now time.Time) error {
	exp, err := TokenExpiry(accessToken)
	if err != nil {
		return err
	}
	if !exp.After(now) {
		return ErrTokenExpired
	}
	return nil
}
