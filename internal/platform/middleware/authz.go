// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/ctxutil"
	"github.com/dvukelic/kavomjer/internal/platform/respond"
	"github.com/dvukelic/kavomjer/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing mocks to be injected during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AdminClaims, error)
}

// RequireAdmin gates protected routes behind a valid admin session token.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. Missing or malformed header: abort with HTTP 401.
//  3. Parse and verify the token via [TokenVerifier]; any failure
//     (bad signature, expiry, tampering) aborts with HTTP 401.
//  4. Inject [*sec.AdminClaims] into the request context and proceed.
//
// There is a single role, so no separate 403 path exists here; FORBIDDEN is
// reserved for future role distinctions.
func RequireAdmin(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Header Presence ────────────────────────────────────────────
			if authHeader == "" {
				respond.Error(writer, request, apperr.Unauthorized("Prijava je obavezna"))
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Neispravan format autorizacijskog zaglavlja"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Nevažeći ili istekli token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAdmin(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
