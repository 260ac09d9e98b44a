// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (credential comparison, JWT
// signing) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the single role the API knows about. All write operations
// require it; there is no finer-grained hierarchy.
const RoleAdmin = "admin"

// AdminClaims represents the payload embedded inside a session token.
//
// The token is stateless: validity is purely signature + expiry, with no
// server-side revocation list. A leaked token therefore stays valid until
// it expires.
type AdminClaims struct {
	jwt.RegisteredClaims

	// Role is the single authorization claim. Always "admin" for tokens
	// issued by this service.
	Role string `json:"role"`
}

// TokenService handles generation and verification of HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewTokenService creates a TokenService signing with the given shared secret.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewTokenServiceAt is like [NewTokenService] but with an injectable clock.
// Production code must use [NewTokenService].
func NewTokenServiceAt(secret, issuer string, ttl time.Duration, now func() time.Time) *TokenService {
	service := NewTokenService(secret, issuer, ttl)
	service.now = now
	return service
}

// Generate creates a signed admin session token with the service's fixed TTL.
func (service *TokenService) Generate() (string, error) {
	currentTime := service.now()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		Role: RoleAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a token string.
//
// It never panics: malformed tokens, wrong signing algorithms, bad
// signatures, and expired tokens are all returned as errors.
func (service *TokenService) Verify(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithTimeFunc(service.now))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if claims.Role != RoleAdmin {
		return nil, fmt.Errorf("sec: unexpected role claim %q", claims.Role)
	}

	return claims, nil
}
