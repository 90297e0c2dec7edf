package service

import (
	"context"
	"errors"
	"testing"

	"uniflash/internal/config"
	"uniflash/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestConfig(ttlHours int) *config.Config {
	cfg := &config.Config{}
	cfg.Auth.AccessPassword = "open-sesame"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = ttlHours
	return cfg
}

func TestAuthService_Login(t *testing.T) {
	t.Run("correct password yields a verifiable token", func(t *testing.T) {
		svc := NewAuthService(authTestConfig(72))

		resp, err := svc.Login(context.Background(), "open-sesame")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 72*3600, resp.ExpiresIn)

		assert.NoError(t, svc.VerifyToken(resp.Token))
	})

	t.Run("wrong password is forbidden", func(t *testing.T) {
		svc := NewAuthService(authTestConfig(72))

		_, err := svc.Login(context.Background(), "guess")
		assert.True(t, errors.Is(err, model.ErrForbidden))
	})

	t.Run("unset password disables login entirely", func(t *testing.T) {
		cfg := authTestConfig(72)
		cfg.Auth.AccessPassword = ""
		svc := NewAuthService(cfg)

		// An empty submitted password must not match an empty configured one.
		_, err := svc.Login(context.Background(), "")
		assert.True(t, errors.Is(err, model.ErrInternalServer))
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	t.Run("garbage is rejected", func(t *testing.T) {
		svc := NewAuthService(authTestConfig(72))
		assert.Error(t, svc.VerifyToken("not.a.token"))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		svc := NewAuthService(authTestConfig(-1))

		resp, err := svc.Login(context.Background(), "open-sesame")
		require.NoError(t, err)

		err = svc.VerifyToken(resp.Token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		issuer := NewAuthService(authTestConfig(72))
		resp, err := issuer.Login(context.Background(), "open-sesame")
		require.NoError(t, err)

		other := authTestConfig(72)
		other.Auth.JWTSecret = "different-secret"
		assert.Error(t, NewAuthService(other).VerifyToken(resp.Token))
	})
}
