package dto

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// MinistrySelectionRequest is one area picked on the form.
type MinistrySelectionRequest struct {
	Category     string `json:"category"`
	MinistryArea string `json:"ministry_area"`
}

// VolunteerRequest payload for signup and dashboard edits.
type VolunteerRequest struct {
	Name       string                     `json:"name"`
	Phone      string                     `json:"phone"`
	Email      string                     `json:"email"`
	Ministries []MinistrySelectionRequest `json:"ministries"`
}

// ToInput converts the payload for the volunteer service.
func (r VolunteerRequest) ToInput() service.VolunteerInput {
	ministries := make([]domain.MinistrySelection, 0, len(r.Ministries))
	for _, m := range r.Ministries {
		ministries = append(ministries, domain.MinistrySelection{Category: m.Category, MinistryArea: m.MinistryArea})
	}
	return service.VolunteerInput{
		Name:       r.Name,
		Phone:      r.Phone,
		Email:      r.Email,
		Ministries: ministries,
	}
}

// MinistrySelectionResponse response.
type MinistrySelectionResponse struct {
	ID           int64  `json:"id"`
	Category     string `json:"category"`
	MinistryArea string `json:"ministry_area"`
}

// VolunteerResponse response.
type VolunteerResponse struct {
	ID         int64                       `json:"id"`
	Name       string                      `json:"name"`
	Phone      string                      `json:"phone"`
	Email      string                      `json:"email"`
	SignupDate time.Time                   `json:"signup_date"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
	Ministries []MinistrySelectionResponse `json:"ministries"`
}

// VolunteerListResponse wraps a filtered list.
type VolunteerListResponse struct {
	Volunteers []VolunteerResponse `json:"volunteers"`
	Total      int                 `json:"total"`
}

// MinistryCategoryResponse lists the areas of one category.
type MinistryCategoryResponse struct {
	Name  string   `json:"name"`
	Areas []string `json:"areas"`
}

// MinistryAreasResponse is the signup form catalog.
type MinistryAreasResponse struct {
	Categories []MinistryCategoryResponse `json:"categories"`
}

// AreaCountResponse response.
type AreaCountResponse struct {
	MinistryArea string `json:"ministry_area"`
	Volunteers   int64  `json:"volunteers"`
}

// CategorySummaryResponse response.
type CategorySummaryResponse struct {
	Category string              `json:"category"`
	Areas    []AreaCountResponse `json:"areas"`
}

// NoteRequest payload.
type NoteRequest struct {
	NoteText string `json:"note_text"`
}

// NoteResponse response.
type NoteResponse struct {
	ID          int64     `json:"id"`
	VolunteerID int64     `json:"volunteer_id"`
	AdminID     *int64    `json:"admin_id"`
	AdminEmail  *string   `json:"admin_email"`
	AdminName   *string   `json:"admin_name"`
	NoteText    string    `json:"note_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewVolunteerResponse maps a domain volunteer.
func NewVolunteerResponse(v *domain.Volunteer) VolunteerResponse {
	ministries := make([]MinistrySelectionResponse, 0, len(v.Ministries))
	for _, m := range v.Ministries {
		ministries = append(ministries, MinistrySelectionResponse{ID: m.ID, Category: m.Category, MinistryArea: m.MinistryArea})
	}
	return VolunteerResponse{
		ID:         v.ID,
		Name:       v.Name,
		Phone:      v.Phone,
		Email:      v.Email,
		SignupDate: v.SignupDate,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
		Ministries: ministries,
	}
}

// NewVolunteerListResponse maps a volunteer list.
func NewVolunteerListResponse(volunteers []domain.Volunteer) VolunteerListResponse {
	out := VolunteerListResponse{Volunteers: make([]VolunteerResponse, 0, len(volunteers)), Total: len(volunteers)}
	for i := range volunteers {
		out.Volunteers = append(out.Volunteers, NewVolunteerResponse(&volunteers[i]))
	}
	return out
}

// NewMinistryAreasResponse maps the catalog in display order.
func NewMinistryAreasResponse(catalog *domain.Catalog) MinistryAreasResponse {
	categories := catalog.Categories()
	out := MinistryAreasResponse{Categories: make([]MinistryCategoryResponse, 0, len(categories))}
	for _, c := range categories {
		out.Categories = append(out.Categories, MinistryCategoryResponse{Name: c.Name, Areas: c.Areas})
	}
	return out
}

// NewAreaSummaryResponse maps per-area counts.
func NewAreaSummaryResponse(summary []service.CategorySummary) []CategorySummaryResponse {
	out := make([]CategorySummaryResponse, 0, len(summary))
	for _, cs := range summary {
		areas := make([]AreaCountResponse, 0, len(cs.Areas))
		for _, a := range cs.Areas {
			areas = append(areas, AreaCountResponse{MinistryArea: a.MinistryArea, Volunteers: a.Volunteers})
		}
		out = append(out, CategorySummaryResponse{Category: cs.Category, Areas: areas})
	}
	return out
}

// NewNoteResponse maps a note.
func NewNoteResponse(n *domain.VolunteerNote) NoteResponse {
	return NoteResponse{
		ID:          n.ID,
		VolunteerID: n.VolunteerID,
		AdminID:     n.AdminID,
		AdminEmail:  n.AdminEmail,
		AdminName:   n.AdminName,
		NoteText:    n.NoteText,
		CreatedAt:   n.CreatedAt,
	}
}
