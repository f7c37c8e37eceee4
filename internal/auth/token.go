package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/restopos/restopos/internal/domain"
)

// CookieName is the cookie the guard reads the access token from.
const CookieName = "pos_access_token"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role      string `json:"role"`
	ShopID    string `json:"shop_id,omitempty"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for a freshly authenticated user. The sid claim is a
// new opaque session id used to key the user's cart.
func (i *TokenIssuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      user.Role.String(),
		ShopID:    user.ShopID.String(),
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry. Used at authenticated API
// endpoints; the route guard itself only decodes.
func (i *TokenIssuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeClaims extracts the claims without verifying the signature.
// Verification happened at issuance; the guard only needs the role claim,
// and a token that does not parse is treated as no session at all.
func DecodeClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
