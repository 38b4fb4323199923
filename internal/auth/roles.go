package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/green-campus/internal/domain"
	apperrors "github.com/spec-kit/green-campus/pkg/util"
)

// RequireRole ensures the caller carries one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is an admin.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
