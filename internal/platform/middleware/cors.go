// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/constants"
	"github.com/dvukelic/kavomjer/internal/platform/ctxutil"
	"github.com/dvukelic/kavomjer/internal/platform/respond"
)

// CORS enforces an explicit origin allow-list.
//
// # Decision Table
//
//   - No Origin header: same-origin or server-to-server traffic, allowed
//     unconditionally and without CORS headers.
//   - Origin on the allow-list: allowed, standard CORS headers attached,
//     preflights answered directly with a 24 h cache hint.
//   - Any other Origin: rejected with an explicit CORS error and no
//     Access-Control-Allow-Origin header, so the browser blocks the
//     response client-side. The offending origin and the active allow-list
//     are logged for diagnosis.
//
// The allow-list is computed once at startup from configuration; it is
// deterministic for a given environment.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Every response varies on Origin, including rejections,
			// so shared caches never serve one origin's response to
			// another.
			writer.Header().Add("Vary", constants.HeaderOrigin)

			// 1. Non-browser traffic carries no Origin header
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Reject anything not explicitly listed
			if _, ok := allowed[origin]; !ok {
				logger := ctxutil.GetLogger(request.Context())
				logger.WarnContext(request.Context(), "cors_origin_rejected",
					slog.String("origin", origin),
					slog.String("allowed_origins", joinOrigins(allowedOrigins)),
				)
				respond.Error(writer, request, apperr.CORSNotAllowed(origin))
				return
			}

			// 3. Inject standard CORS headers for the approved origin
			header := writer.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
			header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID, RateLimit-Limit, RateLimit-Remaining, RateLimit-Reset")
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Max-Age", strconv.Itoa(constants.CORSMaxAgeSeconds))

			// 4. Handle pre-flight requests (OPTIONS)
			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// joinOrigins renders the allow-list for error messages and logs.
func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "(empty)"
	}
	return strings.Join(origins, ", ")
}
