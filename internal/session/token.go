package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "nucleav-web"

// cookieClaims is the payload of the signed session cookie. It carries only
// an opaque session ID; the upstream bearer token stays server-side.
type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewCookieToken signs an HS256 token referencing the given session ID.
func NewCookieToken(secret, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseCookieToken verifies the signature and expiry and returns the
// referenced session ID.
func ParseCookieToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &cookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*cookieClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.SessionID, nil
}
