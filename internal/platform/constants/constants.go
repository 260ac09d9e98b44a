// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Per-category fixed-window budgets.
  - Security: JWT issuer and session token lifetime.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "kavomjer-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting
//
// Four independent fixed-window budgets keyed by client IP. Counters live in
// an injectable store (in-memory by default, Redis when REDIS_URL is set).

const (
	// GeneralRateWindow / GeneralRateMax apply broadly to all API traffic.
	GeneralRateWindow = 15 * time.Minute
	GeneralRateMax    = 100

	// LoginRateWindow / LoginRateMax budget FAILED login attempts only.
	// Successful logins never consume the budget.
	LoginRateWindow = 15 * time.Minute
	LoginRateMax    = 5

	// WriteRateWindow / WriteRateMax apply to mutating (POST/PUT/DELETE) routes.
	WriteRateWindow = 1 * time.Minute
	WriteRateMax    = 10

	// UploadRateWindow / UploadRateMax apply to image-upload routes.
	UploadRateWindow = 10 * time.Minute
	UploadRateMax    = 5

	// RateLimitSweepEvery bounds memory: every N new windows the in-memory
	// store drops all expired counters.
	RateLimitSweepEvery = 100
)

// # Uploads

const (
	// MaxImageUploadBytes caps a single coffee image upload.
	MaxImageUploadBytes = 5 << 20

	// ImageFormField is the multipart form field carrying the image.
	ImageFormField = "image"
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "kavomjer.app"

	// SessionTokenTTL is the lifetime of an admin session token.
	// Long-lived (7 days) because there is a single trusted operator and
	// no server-side revocation list.
	SessionTokenTTL = 7 * 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"

	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldToken   = "token"
)

// # Storage

const (
	// CollectionExtension is the suffix of every catalog collection file.
	CollectionExtension = ".json"

	// RedisPrefixRateLimit namespaces fixed-window counters in Redis.
	RedisPrefixRateLimit = "ratelimit:"
)

// # CORS

// DevOrigins is the fixed allow-list used outside production. It covers the
// local Vite dev server and common alternative ports.
var DevOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
}

// CORSMaxAgeSeconds is how long browsers may cache preflight responses (24 h).
const CORSMaxAgeSeconds = 86400
