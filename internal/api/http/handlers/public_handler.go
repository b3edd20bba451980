package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
)

// PublicHandler serves the unauthenticated signup form endpoints.
type PublicHandler struct {
	volunteers VolunteerService
}

// NewPublicHandler constructs handler.
func NewPublicHandler(volunteers VolunteerService) *PublicHandler {
	return &PublicHandler{volunteers: volunteers}
}

// MinistryAreas handles GET /api/ministry-areas.
func (h *PublicHandler) MinistryAreas(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewMinistryAreasResponse(h.volunteers.Catalog())})
}

// Signup handles POST /api/volunteers.
func (h *PublicHandler) Signup(c *fiber.Ctx) error {
	var req dto.VolunteerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	volunteer, err := h.volunteers.Signup(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewVolunteerResponse(volunteer)})
}
