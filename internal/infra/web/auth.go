package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Principal resolution =====
//
// Identity issuance lives elsewhere; this service only verifies bearer
// tokens and extracts the stable user id from the subject claim.

type AuthManager struct {
	secret []byte
}

func NewAuthManager(hmacSecret string) *AuthManager {
	return &AuthManager{secret: []byte(hmacSecret)}
}

// ParseFromRequest resolves the Authorization header to a user id.
func (a *AuthManager) ParseFromRequest(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return "", errors.New("missing token")
	}
	if !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return "", errors.New("malformed authorization header")
	}
	return a.parse(strings.TrimSpace(hdr[7:]))
}

func (a *AuthManager) parse(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// Mint issues a token for userID. Used by dev tooling and tests.
func (a *AuthManager) Mint(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
