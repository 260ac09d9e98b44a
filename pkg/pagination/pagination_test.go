// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvukelic/kavomjer/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", pagination.DefaultPage, pagination.DefaultLimit},
		{"explicit", "?page=3&limit=10", 3, 10},
		{"negative_page_clamped", "?page=-1&limit=10", pagination.DefaultPage, 10},
		{"excessive_limit_clamped", "?page=1&limit=100000", 1, pagination.DefaultLimit},
		{"garbage_ignored", "?page=abc&limit=xyz", pagination.DefaultPage, pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/coffees"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Slice verifies the in-memory paging bounds stay inside the
collection.
*/
func TestParams_Slice(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int
		wantFrom int
		wantTo   int
	}{
		{"first_page", 1, 10, 25, 0, 10},
		{"middle_page", 2, 10, 25, 10, 20},
		{"last_partial_page", 3, 10, 25, 20, 25},
		{"past_the_end", 9, 10, 25, 25, 25},
		{"empty_collection", 1, 10, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.Params{Page: tt.page, Limit: tt.limit}
			from, to := params.Slice(tt.total)

			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

/*
TestNewMeta verifies total-page arithmetic.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 10, 25)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Zero(t, pagination.NewMeta(1, 10, 0).TotalPages)
}
