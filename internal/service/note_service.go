package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// NoteService manages admin notes attached to volunteers.
type NoteService struct {
	notes      repository.NoteRepository
	volunteers repository.VolunteerRepository
}

// NewNoteService constructs the service.
func NewNoteService(notes repository.NoteRepository, volunteers repository.VolunteerRepository) *NoteService {
	return &NoteService{notes: notes, volunteers: volunteers}
}

// List returns a volunteer's notes, newest first.
func (s *NoteService) List(ctx context.Context, volunteerID int64) ([]domain.VolunteerNote, error) {
	if err := s.ensureVolunteer(ctx, volunteerID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// Add records a note written by author.
func (s *NoteService) Add(ctx context.Context, author *domain.AdminUser, volunteerID int64, text string) (*domain.VolunteerNote, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return nil, apperrors.NewValidationError("invalid note", map[string]any{"note_text": "note_text is required"})
	case utf8.RuneCountInString(text) > domain.MaxNoteLength:
		return nil, apperrors.NewValidationError("invalid note", map[string]any{
			"note_text": fmt.Sprintf("note_text must be at most %d characters", domain.MaxNoteLength),
		})
	}
	if err := s.ensureVolunteer(ctx, volunteerID); err != nil {
		return nil, err
	}

	note := &domain.VolunteerNote{
		VolunteerID: volunteerID,
		AdminID:     &author.ID,
		AdminEmail:  &author.Email,
		AdminName:   author.Name,
		NoteText:    text,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, apperrors.MapError(err)
	}
	return note, nil
}

// Delete removes a note. Only its author or the super admin may do so.
func (s *NoteService) Delete(ctx context.Context, caller *domain.AdminUser, volunteerID, noteID int64) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil || note.VolunteerID != volunteerID {
		if err == nil || apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("note", map[string]any{"note_id": noteID})
		}
		return apperrors.MapError(err)
	}

	isAuthor := note.AdminID != nil && *note.AdminID == caller.ID
	if !isAuthor && !caller.IsSuperAdmin {
		return apperrors.NewForbidden("only the author or the super admin can delete this note")
	}
	if err := s.notes.Delete(ctx, noteID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("note", map[string]any{"note_id": noteID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *NoteService) ensureVolunteer(ctx context.Context, volunteerID int64) error {
	if _, err := s.volunteers.GetByID(ctx, volunteerID); err != nil {
		return volunteerErr(err, volunteerID)
	}
	return nil
}
