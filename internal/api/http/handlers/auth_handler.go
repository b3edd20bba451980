package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
)

// AuthHandler exposes admin login and password endpoints.
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	admin, token, exp, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errorStatus(err) == http.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   exp,
			Admin:       dto.NewAdminResponse(admin),
		},
	})
}

// Me handles GET /api/admin/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminResponse(admin)})
}

// ChangePassword handles POST /api/admin/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current and new password required")
	}

	if err := h.authService.ChangePassword(c.UserContext(), admin, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Password updated successfully"}})
}

// RequestPasswordReset handles POST /api/admin/password/reset/request.
// The response is the same whether or not the account exists.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if strings.TrimSpace(req.Email) == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{"message": "If an account exists for that email, a reset link has been sent"},
	})
}

// ConfirmPasswordReset handles POST /api/admin/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and new password required")
	}

	if err := h.authService.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Password reset successfully"}})
}
