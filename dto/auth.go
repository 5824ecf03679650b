package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mangrove-registry/models"
)

// TokenClaims identify the caller of a registry request. The role is
// refreshed from the users table when a request is authenticated.
type TokenClaims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest holds the credentials posted to /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is a project owner's sign-up form
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	Password string  `json:"password" binding:"required,min=6,max=72"`
	Username *string `json:"username" binding:"omitempty,max=150"`
	Name     *string `json:"name" binding:"omitempty,max=255"`
}

// CreateUserRequest is used by administrators to provision verifier and
// admin accounts
type CreateUserRequest struct {
	RegisterRequest
	Role models.Role `json:"role" binding:"required,oneof=owner verifier admin"`
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
