// Package session holds the two credential lifetimes of an authorized
// session: the Redis-backed token store (ends with logout or expiry)
// and the signed cookie that names the session. Durable persistence of
// the token pair lives on the users row, not here.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName matches the session cookie the original deployment used.
const CookieName = "spotify_session"

type sessionClaims struct {
	jwt.RegisteredClaims
}

// CookieCodec signs and verifies the session cookie. The cookie only
// carries the session id; the token pair itself stays server-side.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), ttl: ttl}
}

// Encode wraps a session id in a signed, expiring token suitable as a
// cookie value.
func (c *CookieCodec) Encode(sessionID string) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a cookie value and returns the session id it names.
// Tampered, expired or foreign-signed values all fail.
func (c *CookieCodec) Decode(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*sessionClaims); ok && token.Valid {
		return claims.Subject, nil
	}
	return "", jwt.ErrTokenMalformed
}

// TTL is the configured session lifetime.
func (c *CookieCodec) TTL() time.Duration { return c.ttl }
