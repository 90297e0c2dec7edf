package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"uniflash/internal/config"
	"uniflash/internal/middleware"
	"uniflash/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService gates the API behind the shared access password and hands
// out short-lived JWTs on success.
type AuthService interface {
	Login(ctx context.Context, password string) (*model.LoginResponse, error)
	VerifyToken(tokenString string) error
}

type authService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) Login(ctx context.Context, password string) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx)

	if s.cfg.Auth.AccessPassword == "" {
		logger.Error("Access password is not configured")
		return nil, model.NewAppError("AUTH_NOT_CONFIGURED", "Login is not configured on this server.", "", model.ErrInternalServer)
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Auth.AccessPassword)) != 1 {
		logger.Warn("Login rejected: wrong access password")
		return nil, model.NewAppError("WRONG_PASSWORD", "The access password is incorrect.", "password", model.ErrForbidden)
	}

	ttl := time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   config.AppName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign access token", "error", err)
		return nil, model.NewAppError("TOKEN_SIGNING_FAILED", "Could not issue an access token.", "", model.ErrInternalServer)
	}

	logger.Info("Login succeeded")
	return &model.LoginResponse{
		Token:     signed,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

func (s *authService) VerifyToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
