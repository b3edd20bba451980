package service

import (
	"context"
	"io"

	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/export"
	"github.com/spec-kit/volunteer-service/internal/observability"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// VolunteerService coordinates signups and dashboard volunteer management.
type VolunteerService struct {
	volunteers repository.VolunteerRepository
	catalog    *domain.Catalog
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// VolunteerDependencies bundles collaborators for the volunteer service.
type VolunteerDependencies struct {
	VolunteerRepo repository.VolunteerRepository
	Catalog       *domain.Catalog
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Clock         clockwork.Clock
}

// VolunteerInput is the editable part of a volunteer record.
type VolunteerInput struct {
	Name       string
	Phone      string
	Email      string
	Ministries []domain.MinistrySelection
}

// AreaSummary counts volunteers for one ministry area.
type AreaSummary struct {
	MinistryArea string
	Volunteers   int64
}

// CategorySummary groups area counts under their category in catalog order.
type CategorySummary struct {
	Category string
	Areas    []AreaSummary
}

// NewVolunteerService constructs the service.
func NewVolunteerService(deps VolunteerDependencies) *VolunteerService {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &VolunteerService{
		volunteers: deps.VolunteerRepo,
		catalog:    catalog,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		clock:      clock,
	}
}

// Catalog returns the ministry catalog offered on the signup form.
func (s *VolunteerService) Catalog() *domain.Catalog {
	return s.catalog
}

// Signup stores a new volunteer and announces it. Notification failures never
// fail the signup.
func (s *VolunteerService) Signup(ctx context.Context, input VolunteerInput) (*domain.Volunteer, error) {
	volunteer, err := s.validated(input)
	if err != nil {
		return nil, err
	}
	if err := s.volunteers.Create(ctx, volunteer); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordSignup()

	ministries := make([]events.Ministry, 0, len(volunteer.Ministries))
	for _, m := range volunteer.Ministries {
		ministries = append(ministries, events.Ministry{Category: m.Category, MinistryArea: m.MinistryArea})
	}
	s.publishEvent(ctx, events.New(events.EventVolunteerSignedUp, s.clock.Now(), events.VolunteerSignedUpPayload{
		VolunteerID: volunteer.ID,
		Name:        volunteer.Name,
		Email:       volunteer.Email,
		Phone:       volunteer.Phone,
		SignupDate:  volunteer.SignupDate,
		Ministries:  ministries,
	}))
	return volunteer, nil
}

// List returns volunteers matching the dashboard filter.
func (s *VolunteerService) List(ctx context.Context, filter repository.VolunteerFilter) ([]domain.Volunteer, error) {
	volunteers, err := s.volunteers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return volunteers, nil
}

// Get loads one volunteer.
func (s *VolunteerService) Get(ctx context.Context, id int64) (*domain.Volunteer, error) {
	volunteer, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		return nil, volunteerErr(err, id)
	}
	return volunteer, nil
}

// Update replaces contact details and ministry selections.
func (s *VolunteerService) Update(ctx context.Context, id int64, input VolunteerInput) (*domain.Volunteer, error) {
	volunteer, err := s.validated(input)
	if err != nil {
		return nil, err
	}
	volunteer.ID = id
	if err := s.volunteers.Update(ctx, volunteer); err != nil {
		return nil, volunteerErr(err, id)
	}
	return volunteer, nil
}

// Delete removes a volunteer with their selections and notes.
func (s *VolunteerService) Delete(ctx context.Context, id int64) error {
	if err := s.volunteers.Delete(ctx, id); err != nil {
		return volunteerErr(err, id)
	}
	return nil
}

// Export writes the filtered volunteer list as CSV.
func (s *VolunteerService) Export(ctx context.Context, filter repository.VolunteerFilter, w io.Writer) error {
	volunteers, err := s.List(ctx, filter)
	if err != nil {
		return err
	}
	if err := export.WriteVolunteersCSV(w, volunteers); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// AreaSummary counts volunteers per ministry area, listing every catalog area.
func (s *VolunteerService) AreaSummary(ctx context.Context) ([]CategorySummary, error) {
	counts, err := s.volunteers.CountByArea(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byKey := make(map[[2]string]int64, len(counts))
	for _, c := range counts {
		byKey[[2]string{c.Category, c.MinistryArea}] = c.Volunteers
	}

	categories := s.catalog.Categories()
	summary := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		cs := CategorySummary{Category: cat.Name, Areas: make([]AreaSummary, 0, len(cat.Areas))}
		for _, area := range cat.Areas {
			cs.Areas = append(cs.Areas, AreaSummary{MinistryArea: area, Volunteers: byKey[[2]string{cat.Name, area}]})
		}
		summary = append(summary, cs)
	}
	return summary, nil
}

func (s *VolunteerService) validated(input VolunteerInput) (*domain.Volunteer, error) {
	volunteer := &domain.Volunteer{
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		Ministries: append([]domain.MinistrySelection(nil), input.Ministries...),
	}
	volunteer.Normalize()
	if problems := volunteer.Validate(s.catalog); len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid volunteer", problems)
	}
	return volunteer, nil
}

func (s *VolunteerService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func volunteerErr(err error, id int64) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("volunteer", map[string]any{"volunteer_id": id})
	}
	return apperrors.MapError(err)
}
