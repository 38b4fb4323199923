package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/green-campus/internal/api/dto"
	"github.com/spec-kit/green-campus/internal/auth"
	"github.com/spec-kit/green-campus/internal/domain"
	"github.com/spec-kit/green-campus/internal/service"
	apperrors "github.com/spec-kit/green-campus/pkg/util"
)

// AuthHandler exposes registration, login and token introspection.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Email and password required", nil)
	}
	result, err := h.auth.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authResponse("User registered successfully", result))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Email and password required", nil)
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse("Login successful", result))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.IdentityResponse{Identity: dto.NewUserSummary(identity)})
}

func authResponse(message string, result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Message:     message,
		AccessToken: result.Token,
		ExpiresAt:   result.ExpiresAt,
		User:        dto.NewUserSummary(domain.Identity{Email: result.User.Email, Role: result.User.Role}),
	}
}
