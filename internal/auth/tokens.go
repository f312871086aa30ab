package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenClaims identify the access token row (ID / jti) and its owner (Subject).
type TokenClaims struct {
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager signs tokens with secret. A zero ttl issues tokens that
// stay valid until revoked.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue signs a token for tokenID owned by userID and reports its expiry,
// which is nil for non-expiring tokens.
func (m *TokenManager) Issue(tokenID, userID string, now time.Time) (string, *time.Time, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tokenID,
			Subject:  userID,
			Issuer:   m.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	var expiresAt *time.Time
	if m.ttl > 0 {
		exp := now.Add(m.ttl)
		expiresAt = &exp
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) Parse(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&TokenClaims{},
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
