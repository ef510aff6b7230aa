package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DriverUser is the only account the service knows.
const DriverUser = "driver"

// TokenTTL is the lifetime of an issued bearer token.
const TokenTTL = 30 * 24 * time.Hour

var ErrBadToken = errors.New("invalid token")

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// MatchSecret compares a plaintext secret in constant time.
func MatchSecret(want, got string) bool {
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// MatchPattern reports whether got is exactly the stored dot sequence.
func MatchPattern(stored, got []int) bool {
	if len(stored) != len(got) {
		return false
	}
	for i := range stored {
		if stored[i] != got[i] {
			return false
		}
	}
	return true
}

type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

func MakeToken(user, secret string, now time.Time) (string, error) {
	c := Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseToken validates signature and expiry against now.
func ParseToken(raw, secret string, now time.Time) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.User == "" {
		return nil, ErrBadToken
	}
	return c, nil
}
