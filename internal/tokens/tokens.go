package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrMissingEmail = errors.New("token has no email")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is what a caller claims to be. It proves nothing about role.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Claims struct {
	Identity
	jwt.RegisteredClaims
}

func Issue(id Identity, secret []byte, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if id.Email == "" {
		return "", time.Time{}, ErrMissingEmail
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	exp := now.Add(ttl)

	claims := Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func ClaimsFromToken(tokenStr string, secret []byte) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrMissingEmail
	}
	return &claims, nil
}
