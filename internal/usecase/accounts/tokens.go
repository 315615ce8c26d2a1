package accounts

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainaccounts "tankgo/internal/domain/accounts"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the signed token payload; it carries the public profile.
type Claims struct {
	ID      uint64 `json:"id"`
	Email   string `json:"email"`
	Nombre  string `json:"nombre"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func (c Claims) Profile() domainaccounts.Profile {
	return domainaccounts.Profile{ID: c.ID, Nombre: c.Nombre, Email: c.Email, IsAdmin: c.IsAdmin}
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(strings.TrimSpace(secret)), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(profile domainaccounts.Profile) (string, error) {
	if len(t.secret) == 0 {
		return "", domainaccounts.ErrSigningKeyMissing
	}
	now := t.now()
	claims := Claims{
		ID:      profile.ID,
		Email:   profile.Email,
		Nombre:  profile.Nombre,
		IsAdmin: profile.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tokenString string) (Claims, error) {
	if len(t.secret) == 0 {
		return Claims{}, domainaccounts.ErrSigningKeyMissing
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domainaccounts.ErrTokenExpired
		}
		return Claims{}, domainaccounts.ErrUnauthorized
	}
	if !token.Valid {
		return Claims{}, domainaccounts.ErrUnauthorized
	}
	return claims, nil
}

// UnverifiedExpiry reads exp without checking the signature. Clients use it to bound how long
// they keep a token.
func UnverifiedExpiry(tokenString string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(tokenString), &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
