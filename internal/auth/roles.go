package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// RequireAdmin ensures an authenticated admin is present.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := AdminFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireSuperAdmin restricts a route to the super admin.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, ok := AdminFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !admin.IsSuperAdmin {
			return apperrors.NewForbidden("super admin role required")
		}
		return c.Next()
	}
}
