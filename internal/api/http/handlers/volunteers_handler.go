package handlers

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
	"github.com/spec-kit/volunteer-service/internal/export"
)

// VolunteersHandler exposes dashboard volunteer endpoints.
type VolunteersHandler struct {
	volunteers VolunteerService
}

// NewVolunteersHandler constructs handler.
func NewVolunteersHandler(volunteers VolunteerService) *VolunteersHandler {
	return &VolunteersHandler{volunteers: volunteers}
}

// List handles GET /api/admin/volunteers.
func (h *VolunteersHandler) List(c *fiber.Ctx) error {
	volunteers, err := h.volunteers.List(c.UserContext(), volunteerFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVolunteerListResponse(volunteers)})
}

// Get handles GET /api/admin/volunteers/:id.
func (h *VolunteersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	volunteer, err := h.volunteers.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVolunteerResponse(volunteer)})
}

// Update handles PUT /api/admin/volunteers/:id.
func (h *VolunteersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.VolunteerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	volunteer, err := h.volunteers.Update(c.UserContext(), id, req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVolunteerResponse(volunteer)})
}

// Delete handles DELETE /api/admin/volunteers/:id.
func (h *VolunteersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.volunteers.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AreaSummary handles GET /api/admin/ministry-areas/summary.
func (h *VolunteersHandler) AreaSummary(c *fiber.Ctx) error {
	summary, err := h.volunteers.AreaSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"categories": dto.NewAreaSummaryResponse(summary)}})
}

// Export handles GET /api/admin/reports/export. The body is buffered so a
// failed query still produces a JSON error instead of a truncated file.
func (h *VolunteersHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.volunteers.Export(c.UserContext(), volunteerFilter(c), &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+export.CSVFilename)
	return c.Send(buf.Bytes())
}
