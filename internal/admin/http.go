// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package admin

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/constants"
	"github.com/dvukelic/kavomjer/internal/platform/middleware"
	requestutil "github.com/dvukelic/kavomjer/internal/platform/request"
	"github.com/dvukelic/kavomjer/internal/platform/respond"
	"github.com/dvukelic/kavomjer/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoint.
type Handler struct {
	authService  *Service
	loginLimiter *middleware.Limiter
}

// NewHandler constructs a new [Handler] with its dependencies.
//
// The login limiter is wired here rather than as route middleware because
// it budgets FAILED attempts only — the decision to consume a slot is made
// after the credential check, which only the handler can see.
func NewHandler(service *Service, loginLimiter *middleware.Limiter) *Handler {
	return &Handler{authService: service, loginLimiter: loginLimiter}
}

// Routes returns a [chi.Router] with the authentication routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/login", handler.login)
	return router
}

var loginSchema = validate.Schema{
	Entity: "login",
	Rules: []validate.Rule{
		{Field: "password", Type: validate.String, Required: true},
	},
}

/*
login authenticates the admin operator.

POST /api/auth/login

Flow:
 1. If the client IP has exhausted its failed-attempt budget, reject with
    429 before even looking at the password — a correct password cannot
    bypass an active lockout window.
 2. Verify the credential. A failure consumes one slot of the budget; a
    success consumes nothing.

Request:
  - Body: { "password": string }

Response:
  - 200: { success, data: { token } }
  - 401: Neispravna lozinka
  - 429: Failed-attempt budget exhausted
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	payload, err := requestutil.DecodeObject(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sanitized, err := loginSchema.Validate(payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	password, _ := sanitized["password"].(string)

	// ── 1. Failed-Attempt Budget ──────────────────────────────────────────
	clientKey := middleware.RealIP(request)
	if blocked, decision := handler.loginLimiter.Blocked(request.Context(), clientKey); blocked {
		middleware.SetRateHeaders(writer, decision)

		retryAfter := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
		if retryAfter < 0 {
			retryAfter = 0
		}
		writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
		respond.Error(writer, request, apperr.RateLimited(retryAfter))
		return
	}

	// ── 2. Credential Verification ────────────────────────────────────────
	token, err := handler.authService.Login(password)
	if err != nil {
		handler.loginLimiter.Record(request.Context(), clientKey)
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldToken: token,
	})
}
