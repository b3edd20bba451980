package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// AdminUsersHandler exposes admin account management.
type AdminUsersHandler struct {
	admins AdminService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(admins AdminService) *AdminUsersHandler {
	return &AdminUsersHandler{admins: admins}
}

// List handles GET /api/admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	admins, err := h.admins.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminListResponse(admins)})
}

// Create handles POST /api/admin/users.
func (h *AdminUsersHandler) Create(c *fiber.Ctx) error {
	var req dto.AdminCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	admin, err := h.admins.Create(c.UserContext(), service.AdminCreateInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAdminResponse(admin)})
}

// Update handles PATCH /api/admin/users/:id.
func (h *AdminUsersHandler) Update(c *fiber.Ctx) error {
	caller, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AdminUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	admin, err := h.admins.Update(c.UserContext(), caller, id, service.AdminUpdateInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminResponse(admin)})
}

// TransferSuperAdmin handles POST /api/admin/users/:id/transfer-super-admin.
func (h *AdminUsersHandler) TransferSuperAdmin(c *fiber.Ctx) error {
	caller, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	target, err := h.admins.TransferSuperAdmin(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAdminResponse(target)})
}
