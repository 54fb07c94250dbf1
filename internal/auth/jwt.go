// Package auth implements bearer credential issuance and validation.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 access tokens.
type Issuer struct {
	secretKey []byte
	ttl       time.Duration
}

// NewIssuer creates a token issuer.
func NewIssuer(secretKey string, ttl time.Duration) *Issuer {
	return &Issuer{secretKey: []byte(secretKey), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue generates a new access token for the subject.
func (i *Issuer) Issue(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(i.secretKey)
	return tokenStr, expiresAt, err
}

// Parse validates a token and returns its claims. Expired or malformed
// tokens map to the auth_expired error kind so the transport layer can
// reject the request before any pipeline work.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secretKey, nil
		})
	if err != nil {
		return nil, domain.E(domain.KindAuthExpired, "invalid or expired credential")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.E(domain.KindAuthExpired, "invalid or expired credential")
	}
	return claims, nil
}
