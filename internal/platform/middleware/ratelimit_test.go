// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvukelic/kavomjer/internal/platform/constants"
	"github.com/dvukelic/kavomjer/internal/platform/middleware"
)

/*
TestLimiter_FixedWindow verifies the core budget arithmetic: exactly max
requests pass within one window, the next is denied, and a fresh window
restores the full budget.
*/
func TestLimiter_FixedWindow(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := middleware.NewMemoryCounterStoreAt(func() time.Time { return clock })
	limiter := middleware.NewLimiter(store, "general", 3, 15*time.Minute)
	ctx := context.Background()

	// Requests 1..max are allowed, with remaining counting down.
	for i := 1; i <= 3; i++ {
		decision := limiter.Allow(ctx, "203.0.113.7")
		assert.True(t, decision.Allowed, "request %d", i)
		assert.Equal(t, 3, decision.Limit)
		assert.Equal(t, 3-i, decision.Remaining)
	}

	// Request max+1 in the same window is denied.
	decision := limiter.Allow(ctx, "203.0.113.7")
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)

	// The window boundary itself starts a new budget.
	clock = clock.Add(15 * time.Minute)
	decision = limiter.Allow(ctx, "203.0.113.7")
	assert.True(t, decision.Allowed)
	assert.Equal(t, 2, decision.Remaining)
}

/*
TestLimiter_PerClientIsolation verifies one client exhausting its budget
never affects another.
*/
func TestLimiter_PerClientIsolation(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := middleware.NewMemoryCounterStoreAt(func() time.Time { return clock })
	limiter := middleware.NewLimiter(store, "general", 2, time.Minute)
	ctx := context.Background()

	limiter.Allow(ctx, "203.0.113.7")
	limiter.Allow(ctx, "203.0.113.7")
	assert.False(t, limiter.Allow(ctx, "203.0.113.7").Allowed)

	assert.True(t, limiter.Allow(ctx, "203.0.113.8").Allowed)
}

/*
TestLimiter_CategoriesAreIndependent verifies that the same client key has
a separate budget per category, as each route class owns its own limiter.
*/
func TestLimiter_CategoriesAreIndependent(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := middleware.NewMemoryCounterStoreAt(func() time.Time { return clock })
	general := middleware.NewLimiter(store, "general", 1, time.Minute)
	write := middleware.NewLimiter(store, "write", 1, time.Minute)
	ctx := context.Background()

	assert.True(t, general.Allow(ctx, "203.0.113.7").Allowed)
	assert.False(t, general.Allow(ctx, "203.0.113.7").Allowed)

	// The write budget is untouched.
	assert.True(t, write.Allow(ctx, "203.0.113.7").Allowed)
}

/*
TestLimiter_BlockedAndRecord verifies the login-flow primitives: Record
consumes budget without deciding, Blocked peeks without consuming.
*/
func TestLimiter_BlockedAndRecord(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := middleware.NewMemoryCounterStoreAt(func() time.Time { return clock })
	limiter := middleware.NewLimiter(store, "login", 2, 15*time.Minute)
	ctx := context.Background()

	blocked, decision := limiter.Blocked(ctx, "203.0.113.7")
	assert.False(t, blocked)
	assert.Equal(t, 2, decision.Remaining)

	limiter.Record(ctx, "203.0.113.7")
	limiter.Record(ctx, "203.0.113.7")

	blocked, decision = limiter.Blocked(ctx, "203.0.113.7")
	assert.True(t, blocked)
	assert.Equal(t, 2, decision.Limit)
	assert.Equal(t, 0, decision.Remaining)
	assert.True(t, decision.ResetAt.Equal(clock.Add(15*time.Minute)))

	// Peeking twice must not consume anything.
	blocked, _ = limiter.Blocked(ctx, "203.0.113.7")
	assert.True(t, blocked)
}

/*
TestLimiter_Middleware verifies header stamping and the 429 envelope on the
HTTP path.
*/
func TestLimiter_Middleware(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := middleware.NewMemoryCounterStoreAt(func() time.Time { return clock })
	limiter := middleware.NewLimiter(store, "general", 1, time.Minute)

	handler := limiter.Middleware()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/api/coffees", nil)
		request.RemoteAddr = "203.0.113.7:51000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	first := send()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get(constants.HeaderRateLimitLimit))
	assert.Equal(t, "0", first.Header().Get(constants.HeaderRateLimitRemaining))

	second := send()
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get(constants.HeaderRetryAfter))
	assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")
}

/*
TestMemoryCounterStore_PeekExpiredWindow verifies that an expired window
reads as zero.
*/
func TestMemoryCounterStore_PeekExpiredWindow(t *testing.T) {
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := middleware.NewMemoryCounterStoreAt(func() time.Time { return clock })
	ctx := context.Background()

	_, _, err := store.Incr(ctx, "login:203.0.113.7", time.Minute)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	count, _, err := store.Peek(ctx, "login:203.0.113.7")
	require.NoError(t, err)
	assert.Zero(t, count)
}
