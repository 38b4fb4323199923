package dto

import (
	"time"

	"github.com/spec-kit/green-campus/internal/domain"
)

// CredentialsRequest is the payload of register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the public view of an account.
type UserSummary struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Message     string      `json:"message"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        UserSummary `json:"user"`
}

// IdentityResponse echoes the decoded bearer token.
type IdentityResponse struct {
	Identity UserSummary `json:"identity"`
}

// NewUserSummary maps an identity for output.
func NewUserSummary(identity domain.Identity) UserSummary {
	return UserSummary{Email: identity.Email, Role: identity.Role}
}
