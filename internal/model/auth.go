package model

// contextKey is a private type for request-context values set by middleware.
type contextKey string

// AuthenticatedKey marks a request that passed token verification.
const AuthenticatedKey contextKey = "authenticated"

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
}
