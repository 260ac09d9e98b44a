// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

/*
Package admin implements the single-operator authentication system.

There are no user accounts: one shared admin credential, configured through
the environment, grants write access to the whole catalog. A successful
login yields a stateless HS256 session token carrying a single role claim.

Architecture:

  - Service: Verifies the credential and issues tokens.
  - Security: Token verification lives in [sec.TokenService]; the gating
    middleware is [middleware.RequireAdmin].
  - Lockout: None internally — brute-force defense is delegated entirely to
    the login rate limiter, which budgets failed attempts per client IP.

# Known Weakness

The legacy credential mode compares the submitted password against a
plain-text environment variable. It is preserved for compatibility with the
original deployment, but constant-time comparison is used and the preferred
mode is a bcrypt hash via ADMIN_PASSWORD_HASH.
*/
package admin

import (
	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/config"
	"github.com/dvukelic/kavomjer/internal/platform/sec"
)

// TokenIssuer defines the contract for generating session tokens.
type TokenIssuer interface {
	// Generate creates a signed admin session token.
	Generate() (string, error)
}

// Service implements the admin authentication use case.
type Service struct {
	plainSecret string
	bcryptHash  string
	tokenIssuer TokenIssuer
}

// NewService constructs a Service from the loaded configuration.
//
// When both credential modes are configured, the bcrypt hash wins and the
// plain secret is ignored.
func NewService(cfg *config.Config, issuer TokenIssuer) *Service {
	return &Service{
		plainSecret: cfg.AdminPassword,
		bcryptHash:  cfg.AdminPasswordHash,
		tokenIssuer: issuer,
	}
}

/*
Login verifies the admin credential and issues a session token.

Description: Succeeds iff the submitted password matches the configured
admin secret (bcrypt comparison when a hash is configured, constant-time
equality otherwise). No lockout or backoff happens here; the login rate
limiter owns that concern.

Returns:
  - string: Signed session token, valid for 7 days
  - error: apperr.Unauthorized on mismatch, internal errors on signing failure
*/
func (service *Service) Login(password string) (string, error) {
	if !service.credentialMatches(password) {
		return "", apperr.Unauthorized("Neispravna lozinka")
	}

	token, err := service.tokenIssuer.Generate()
	if err != nil {
		return "", apperr.Internal(err)
	}

	return token, nil
}

// credentialMatches checks the password against the active credential mode.
func (service *Service) credentialMatches(password string) bool {
	if service.bcryptHash != "" {
		return sec.CheckPasswordHash(password, service.bcryptHash)
	}
	return sec.ConstantTimeEquals(password, service.plainSecret)
}
