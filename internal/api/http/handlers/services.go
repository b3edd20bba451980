package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	"github.com/spec-kit/volunteer-service/internal/service"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// VolunteerService is what the volunteer endpoints need from the service layer.
type VolunteerService interface {
	Catalog() *domain.Catalog
	Signup(ctx context.Context, input service.VolunteerInput) (*domain.Volunteer, error)
	List(ctx context.Context, filter repository.VolunteerFilter) ([]domain.Volunteer, error)
	Get(ctx context.Context, id int64) (*domain.Volunteer, error)
	Update(ctx context.Context, id int64, input service.VolunteerInput) (*domain.Volunteer, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, filter repository.VolunteerFilter, w io.Writer) error
	AreaSummary(ctx context.Context) ([]service.CategorySummary, error)
}

// NoteService backs the notes endpoints.
type NoteService interface {
	List(ctx context.Context, volunteerID int64) ([]domain.VolunteerNote, error)
	Add(ctx context.Context, author *domain.AdminUser, volunteerID int64, text string) (*domain.VolunteerNote, error)
	Delete(ctx context.Context, caller *domain.AdminUser, volunteerID, noteID int64) error
}

// AuthService backs login and password endpoints.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.AdminUser, string, time.Time, error)
	ChangePassword(ctx context.Context, admin *domain.AdminUser, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// AdminService backs admin account management.
type AdminService interface {
	List(ctx context.Context) ([]domain.AdminUser, error)
	Create(ctx context.Context, input service.AdminCreateInput) (*domain.AdminUser, error)
	Update(ctx context.Context, caller *domain.AdminUser, id int64, input service.AdminUpdateInput) (*domain.AdminUser, error)
	TransferSuperAdmin(ctx context.Context, caller *domain.AdminUser, targetID int64) (*domain.AdminUser, error)
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid path parameter", map[string]any{name: "must be a positive integer"})
	}
	return id, nil
}

func currentAdmin(c *fiber.Ctx) (*domain.AdminUser, error) {
	admin, ok := auth.AdminFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return admin, nil
}

// volunteerFilter reads ministry_area, category, search and sort_by from the query string.
func volunteerFilter(c *fiber.Ctx) repository.VolunteerFilter {
	filter := repository.VolunteerFilter{SortBy: domain.ParseSortOrder(c.Query("sort_by"))}
	if v := strings.TrimSpace(c.Query("ministry_area")); v != "" {
		filter.MinistryArea = &v
	}
	if v := strings.TrimSpace(c.Query("category")); v != "" {
		filter.Category = &v
	}
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		filter.Search = &v
	}
	return filter
}

func invalidPayload() error {
	return fiber.NewError(http.StatusBadRequest, "invalid payload")
}

func errorStatus(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}
