package service

import (
	"fmt"
	"time"

	"github.com/yusinchenn/accessible-shop-wallet/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

const tokenExpiry = 24 * time.Hour

// JWTTokenService implements ports.TokenService using HS256 JWT. It stands in
// for the hosted identity provider: the wallet trusts the subject claim
// completely and never re-derives identity.
type JWTTokenService struct {
	secret []byte
	issuer string
}

// NewJWTTokenService creates a new JWT token service.
func NewJWTTokenService(secret string, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Generate creates a signed JWT for the given account. Used by tests and
// provisioning tooling; production tokens come from the identity provider
// sharing the same secret and claim shape.
func (s *JWTTokenService) Generate(accountID string, admin bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tokenExpiry)

	claims := jwt.MapClaims{
		"sub":   accountID,
		"admin": admin,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
		"iss":   s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses and validates a JWT token, returning the identity claims.
func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("missing subject claim")
	}

	admin, _ := claims["admin"].(bool)

	return &ports.TokenClaims{
		AccountID: sub,
		Admin:     admin,
	}, nil
}
