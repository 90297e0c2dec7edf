package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"uniflash/internal/model"
	"uniflash/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier checks an access token issued at login.
type TokenVerifier interface {
	VerifyToken(tokenString string) error
}

// AuthMiddleware requires a valid Bearer token on every request it wraps.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHORIZED", "An Authorization header is required.", "", model.ErrForbidden))
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("Auth failed: invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError(
					"UNAUTHORIZED", "The Authorization header must be a Bearer token.", "", model.ErrForbidden))
				return
			}

			if err := verifier.VerifyToken(headerParts[1]); err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					logger.Warn("Auth failed: token expired")
					webutil.HandleError(w, logger, model.NewAppError(
						"TOKEN_EXPIRED", "The access token has expired.", "", model.ErrForbidden))
					return
				}
				logger.Warn("Auth failed: invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError(
					"INVALID_TOKEN", "The access token is invalid.", "", model.ErrForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), model.AuthenticatedKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
