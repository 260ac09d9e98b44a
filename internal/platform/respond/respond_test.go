// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/respond"
)

/*
TestError_StatusCodeMatchesTransport verifies the envelope invariant: the
statusCode field inside the body always equals the HTTP status of the
response, for every error family.
*/
func TestError_StatusCodeMatchesTransport(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.ValidationError("Validacija nije uspjela"), http.StatusBadRequest, apperr.CodeValidation},
		{"unauthorized", apperr.Unauthorized("Neispravna lozinka"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"cors", apperr.CORSNotAllowed("https://evil.example"), http.StatusForbidden, apperr.CodeCORS},
		{"not_found", apperr.NotFound("Kava"), http.StatusNotFound, apperr.CodeNotFound},
		{"conflict", apperr.Conflict("Već postoji"), http.StatusConflict, apperr.CodeConflict},
		{"rate_limited", apperr.RateLimited(42), http.StatusTooManyRequests, apperr.CodeRateLimit},
		{"internal", apperr.Internal(errors.New("disk failure")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			require.Equal(t, tt.wantStatus, recorder.Code)

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

			assert.False(t, envelope.Success)
			assert.Equal(t, tt.wantStatus, envelope.Error.StatusCode, "body statusCode must repeat the transport status")
			assert.Equal(t, tt.wantCode, envelope.Error.Code)

			// Timestamp is a parseable RFC 3339 instant.
			_, err := time.Parse(time.RFC3339, envelope.Error.Timestamp)
			assert.NoError(t, err)
		})
	}
}

/*
TestError_HidesInternalCause verifies that raw Go errors never leak their
text to the client.
*/
func TestError_HidesInternalCause(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil),
		errors.New("pq: connection refused on 10.0.0.3"))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "10.0.0.3")
	assert.Contains(t, recorder.Body.String(), apperr.CodeInternal)
}

/*
TestSuccessEnvelopes covers the success variants.
*/
func TestSuccessEnvelopes(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.OK(recorder, map[string]string{"token": "abc"})

		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Success bool              `json:"success"`
			Data    map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, "abc", envelope.Data["token"])
	})

	t.Run("created", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Created(recorder, map[string]string{"id": "1"})
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("no_content", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.NoContent(recorder)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})
}

/*
TestError_ValidationDetails verifies field errors survive the trip into
the envelope.
*/
func TestError_ValidationDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodPost, "/", nil),
		apperr.ValidationError("Validacija nije uspjela",
			apperr.FieldError{Field: "name", Message: "Obavezno polje"},
			apperr.FieldError{Field: "priceEUR", Message: "Mora biti veće od 0"},
		))

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Error.Details, 2)
	assert.Equal(t, "name", envelope.Error.Details[0].Field)
}
