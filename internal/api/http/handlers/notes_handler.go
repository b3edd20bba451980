package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/dto"
)

// NotesHandler exposes admin notes on a volunteer.
type NotesHandler struct {
	notes NoteService
}

// NewNotesHandler constructs handler.
func NewNotesHandler(notes NoteService) *NotesHandler {
	return &NotesHandler{notes: notes}
}

// List handles GET /api/admin/volunteers/:id/notes.
func (h *NotesHandler) List(c *fiber.Ctx) error {
	volunteerID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	notes, err := h.notes.List(c.UserContext(), volunteerID)
	if err != nil {
		return err
	}
	resp := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		resp = append(resp, dto.NewNoteResponse(&notes[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create handles POST /api/admin/volunteers/:id/notes.
func (h *NotesHandler) Create(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	volunteerID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	note, err := h.notes.Add(c.UserContext(), admin, volunteerID, req.NoteText)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewNoteResponse(note)})
}

// Delete handles DELETE /api/admin/volunteers/:id/notes/:noteId.
func (h *NotesHandler) Delete(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	volunteerID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	noteID, err := pathID(c, "noteId")
	if err != nil {
		return err
	}
	if err := h.notes.Delete(c.UserContext(), admin, volunteerID, noteID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
