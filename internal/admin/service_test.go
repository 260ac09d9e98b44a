// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package admin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvukelic/kavomjer/internal/admin"
	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/config"
	"github.com/dvukelic/kavomjer/internal/platform/sec"
)

// stubIssuer issues a fixed token, or fails on demand.
type stubIssuer struct {
	token string
	err   error
}

func (s *stubIssuer) Generate() (string, error) { return s.token, s.err }

/*
TestService_Login_PlainMode covers the legacy plain-text credential mode.
*/
func TestService_Login_PlainMode(t *testing.T) {
	service := admin.NewService(
		&config.Config{AdminPassword: "tajna-lozinka"},
		&stubIssuer{token: "signed-token"},
	)

	t.Run("correct_password", func(t *testing.T) {
		token, err := service.Login("tajna-lozinka")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := service.Login("kriva-lozinka")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.CodeUnauthorized, ae.Code)
		assert.Equal(t, 401, ae.HTTPStatus)
		assert.Equal(t, "Neispravna lozinka", ae.Message)
	})

	t.Run("empty_password", func(t *testing.T) {
		_, err := service.Login("")
		assert.Error(t, err)
	})
}

/*
TestService_Login_BcryptMode verifies that a configured hash takes
precedence over the plain secret.
*/
func TestService_Login_BcryptMode(t *testing.T) {
	hash, err := sec.HashPassword("hash-lozinka")
	require.NoError(t, err)

	service := admin.NewService(
		&config.Config{
			AdminPassword:     "plain-lozinka",
			AdminPasswordHash: hash,
		},
		&stubIssuer{token: "signed-token"},
	)

	token, err := service.Login("hash-lozinka")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)

	// The ignored plain secret must not open a second door.
	_, err = service.Login("plain-lozinka")
	assert.Error(t, err)
}

/*
TestService_Login_SigningFailure verifies that issuer errors surface as
internal errors, never as unauthorized.
*/
func TestService_Login_SigningFailure(t *testing.T) {
	service := admin.NewService(
		&config.Config{AdminPassword: "tajna-lozinka"},
		&stubIssuer{err: errors.New("hsm unavailable")},
	)

	_, err := service.Login("tajna-lozinka")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeInternal, ae.Code)
}
