// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/constants"
	"github.com/dvukelic/kavomjer/internal/platform/ctxutil"
	"github.com/dvukelic/kavomjer/internal/platform/respond"
)

// # Counter Store

// CounterStore is the backing storage for fixed-window counters.
//
// The in-memory implementation is process-local: restarting the server or
// running multiple instances resets/fragments the limits. Deployments that
// scale horizontally inject [RedisCounterStore] instead so all instances
// share one budget.
type CounterStore interface {
	// Incr increments the counter for key, starting a fresh window of the
	// given duration if none is active. It returns the post-increment count
	// and the moment the window expires.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)

	// Peek returns the current count without incrementing. A key with no
	// active window reports zero.
	Peek(ctx context.Context, key string) (count int, resetAt time.Time, err error)
}

// # In-Memory Store

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// MemoryCounterStore keeps fixed-window counters in a mutex-guarded map.
//
// Counters are created lazily on the first request of a window and dropped
// once expired. Every [constants.RateLimitSweepEvery] new windows a full
// sweep removes stale entries, bounding memory to active keys plus a small
// stale tail.
type MemoryCounterStore struct {
	mu           sync.Mutex
	windows      map[string]*memoryWindow
	sweepCounter int

	// now is injectable for window-rollover tests.
	now func() time.Time
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

// NewMemoryCounterStoreAt is like [NewMemoryCounterStore] with an injectable
// clock. Production code must use [NewMemoryCounterStore].
func NewMemoryCounterStoreAt(now func() time.Time) *MemoryCounterStore {
	store := NewMemoryCounterStore()
	store.now = now
	return store
}

// Incr implements [CounterStore].
func (store *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	currentTime := store.now()
	entry, exists := store.windows[key]

	// Start a new window if none exists or the current one expired. The
	// boundary instant (!Before == at-or-after resetAt) starts a new window.
	if !exists || !currentTime.Before(entry.resetAt) {
		entry = &memoryWindow{count: 1, resetAt: currentTime.Add(window)}
		store.windows[key] = entry

		store.sweepCounter++
		if store.sweepCounter >= constants.RateLimitSweepEvery {
			store.sweep(currentTime)
			store.sweepCounter = 0
		}

		return entry.count, entry.resetAt, nil
	}

	entry.count++
	return entry.count, entry.resetAt, nil
}

// Peek implements [CounterStore].
func (store *MemoryCounterStore) Peek(_ context.Context, key string) (int, time.Time, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	currentTime := store.now()
	entry, exists := store.windows[key]
	if !exists || !currentTime.Before(entry.resetAt) {
		return 0, time.Time{}, nil
	}
	return entry.count, entry.resetAt, nil
}

// sweep removes expired windows. Must be called while holding store.mu.
func (store *MemoryCounterStore) sweep(currentTime time.Time) {
	for key, entry := range store.windows {
		if !currentTime.Before(entry.resetAt) {
			delete(store.windows, key)
		}
	}
}

// # Redis Store

// RedisCounterStore shares fixed-window counters across server instances.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a Redis-backed counter store.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Incr implements [CounterStore] using INCR + EXPIRE NX, so the TTL is set
// exactly once per window regardless of instance count.
func (store *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	redisKey := constants.RedisPrefixRateLimit + key

	pipe := store.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	ttl := pipe.PTTL(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	return int(incr.Val()), time.Now().Add(ttl.Val()), nil
}

// Peek implements [CounterStore].
func (store *RedisCounterStore) Peek(ctx context.Context, key string) (int, time.Time, error) {
	redisKey := constants.RedisPrefixRateLimit + key

	pipe := store.client.TxPipeline()
	get := pipe.Get(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		if err == redis.Nil {
			return 0, time.Time{}, nil
		}
		return 0, time.Time{}, err
	}

	count, err := strconv.Atoi(get.Val())
	if err != nil {
		return 0, time.Time{}, err
	}
	return count, time.Now().Add(ttl.Val()), nil
}

// # Limiter

// Limiter enforces at most Max requests per Window for each client key
// within one named category.
type Limiter struct {
	store    CounterStore
	category string
	max      int
	window   time.Duration
}

// NewLimiter creates a fixed-window limiter for one category.
func NewLimiter(store CounterStore, category string, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, category: category, max: max, window: window}
}

// Decision is the outcome of a limiter check for a single request.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allow records one request for the client key and decides whether it may
// proceed.
//
// Store failures fail open: a broken Redis must degrade rate limiting, not
// take down the API.
func (limiter *Limiter) Allow(ctx context.Context, clientKey string) Decision {
	count, resetAt, err := limiter.store.Incr(ctx, limiter.category+":"+clientKey, limiter.window)
	if err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "ratelimit_store_error",
			slog.String("category", limiter.category),
			slog.Any("error", err),
		)
		return Decision{Allowed: true, Limit: limiter.max, Remaining: limiter.max, ResetAt: time.Now()}
	}

	remaining := limiter.max - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= limiter.max,
		Limit:     limiter.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// Blocked reports whether the client key has already exhausted the budget,
// without consuming a slot. Used by the login flow, which only counts
// failed attempts. The returned [Decision] carries the limiter state so
// callers can attach the standard RateLimit-* headers themselves.
func (limiter *Limiter) Blocked(ctx context.Context, clientKey string) (bool, Decision) {
	count, resetAt, err := limiter.store.Peek(ctx, limiter.category+":"+clientKey)
	if err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "ratelimit_store_error",
			slog.String("category", limiter.category),
			slog.Any("error", err),
		)
		return false, Decision{Allowed: true, Limit: limiter.max, Remaining: limiter.max, ResetAt: time.Now()}
	}

	remaining := limiter.max - count
	if remaining < 0 {
		remaining = 0
	}

	return count >= limiter.max, Decision{
		Allowed:   count < limiter.max,
		Limit:     limiter.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// Record consumes one slot for the client key without deciding anything.
// The login handler calls this after each failed attempt.
func (limiter *Limiter) Record(ctx context.Context, clientKey string) {
	_, _, err := limiter.store.Incr(ctx, limiter.category+":"+clientKey, limiter.window)
	if err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "ratelimit_store_error",
			slog.String("category", limiter.category),
			slog.Any("error", err),
		)
	}
}

// Middleware wraps a handler with the limiter, keyed by client IP.
//
// Standard RateLimit-* headers are attached to every response, allowed or
// not, so clients can pace themselves before hitting the wall.
func (limiter *Limiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision := limiter.Allow(request.Context(), RealIP(request))
			SetRateHeaders(writer, decision)

			if !decision.Allowed {
				retryAfter := retryAfterSeconds(decision.ResetAt)
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))

				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "rate_limit_exceeded",
					slog.String("category", limiter.category),
					slog.String("path", request.URL.Path),
				)
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// SetRateHeaders exposes the limiter state via standard headers.
func SetRateHeaders(writer http.ResponseWriter, decision Decision) {
	header := writer.Header()
	header.Set(constants.HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
	header.Set(constants.HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
	header.Set(constants.HeaderRateLimitReset, strconv.Itoa(retryAfterSeconds(decision.ResetAt)))
}

// retryAfterSeconds converts an absolute reset time to whole seconds from now.
func retryAfterSeconds(resetAt time.Time) int {
	seconds := int(math.Ceil(time.Until(resetAt).Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}
