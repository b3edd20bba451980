package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/domain"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AdminLookup loads admins referenced by token subjects.
type AdminLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.AdminUser, error)
}

// AuthMiddleware validates bearer tokens and loads the calling admin.
type AuthMiddleware struct {
	tokens *TokenManager
	admins AdminLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, admins AdminLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, admins: admins}
}

// Handle enforces authentication for protected routes. Deactivated or deleted
// admins are rejected even while their token is unexpired.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return unauthorized(c, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return unauthorized(c, "invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return unauthorized(c, "Could not validate credentials")
	}
	adminID, _ := claims.AdminID()

	admin, err := m.admins.GetByID(c.UserContext(), adminID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return unauthorized(c, "Could not validate credentials")
		}
		return apperrors.MapError(err)
	}
	if !admin.IsActive {
		return unauthorized(c, "Could not validate credentials")
	}

	c.Locals(principalKey, admin)
	return c.Next()
}

// AdminFromContext retrieves the authenticated admin.
func AdminFromContext(c *fiber.Ctx) (*domain.AdminUser, bool) {
	admin, ok := c.Locals(principalKey).(*domain.AdminUser)
	return admin, ok && admin != nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return apperrors.NewUnauthorized(message)
}
