package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// singleSuperAdminIndex is the partial unique index allowing one super admin.
const singleSuperAdminIndex = "admin_users_single_super_idx"

// AdminService manages dashboard accounts.
type AdminService struct {
	admins     repository.AdminRepository
	bcryptCost int
}

// AdminCreateInput describes a new admin account.
type AdminCreateInput struct {
	Email        string
	Password     string
	Name         *string
	IsSuperAdmin bool
}

// AdminUpdateInput carries optional changes; nil fields are left alone.
type AdminUpdateInput struct {
	Name     *string
	IsActive *bool
}

// NewAdminService constructs the service.
func NewAdminService(admins repository.AdminRepository, bcryptCost int) *AdminService {
	return &AdminService{admins: admins, bcryptCost: bcryptCost}
}

// List returns every admin, newest first.
func (s *AdminService) List(ctx context.Context) ([]domain.AdminUser, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return admins, nil
}

// Create adds an active admin. The CLI bootstrap is the only caller allowed to set
// IsSuperAdmin.
func (s *AdminService) Create(ctx context.Context, input AdminCreateInput) (*domain.AdminUser, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	problems := map[string]any{}
	if err := domain.ValidateEmail(email); err != nil {
		problems["email"] = err.Error()
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		problems["password"] = err.Error()
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid admin", problems)
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, duplicateAdmin(email)
	} else if !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.AdminUser{
		Email:        email,
		PasswordHash: hash,
		Name:         trimmedName(input.Name),
		IsActive:     true,
		IsSuperAdmin: input.IsSuperAdmin,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if de := apperrors.ToDomainError(err); de.Code == "CONFLICT" {
			if de.Details["constraint"] == singleSuperAdminIndex {
				return nil, apperrors.NewConflict("a super admin already exists; use transfer-super-admin", nil)
			}
			return nil, duplicateAdmin(email)
		}
		return nil, apperrors.MapError(err)
	}
	return admin, nil
}

// Update renames or (de)activates an admin. Anyone may rename themselves; every
// other change needs the super admin. Nobody can deactivate themselves or the
// super admin.
func (s *AdminService) Update(ctx context.Context, caller *domain.AdminUser, id int64, input AdminUpdateInput) (*domain.AdminUser, error) {
	target, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, adminErr(err, id)
	}

	self := caller.ID == target.ID
	if input.Name != nil && !self && !caller.IsSuperAdmin {
		return nil, apperrors.NewForbidden("super admin role required")
	}
	if input.IsActive != nil {
		if !caller.IsSuperAdmin {
			return nil, apperrors.NewForbidden("super admin role required")
		}
		if !*input.IsActive && self {
			return nil, apperrors.NewBadRequest("You cannot deactivate your own account")
		}
		if !*input.IsActive && target.IsSuperAdmin {
			return nil, apperrors.NewBadRequest("The super admin cannot be deactivated")
		}
		target.IsActive = *input.IsActive
	}
	if input.Name != nil {
		target.Name = trimmedName(input.Name)
	}

	if err := s.admins.UpdateProfile(ctx, target); err != nil {
		return nil, adminErr(err, id)
	}
	return target, nil
}

// TransferSuperAdmin hands the super admin role from caller to targetID.
func (s *AdminService) TransferSuperAdmin(ctx context.Context, caller *domain.AdminUser, targetID int64) (*domain.AdminUser, error) {
	if !caller.IsSuperAdmin {
		return nil, apperrors.NewForbidden("super admin role required")
	}
	if caller.ID == targetID {
		return nil, apperrors.NewBadRequest("You already are the super admin")
	}
	target, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		return nil, adminErr(err, targetID)
	}
	if !target.IsActive {
		return nil, apperrors.NewBadRequest("The super admin role can only be given to an active admin")
	}

	if err := s.admins.TransferSuperAdmin(ctx, caller.ID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotSuperAdmin) {
			return nil, apperrors.NewForbidden("super admin role required")
		}
		return nil, adminErr(err, targetID)
	}
	target.IsSuperAdmin = true
	return target, nil
}

func trimmedName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func duplicateAdmin(email string) error {
	return apperrors.NewConflict("An admin with this email already exists", map[string]any{"email": email})
}

func adminErr(err error, id int64) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound("admin user", map[string]any{"admin_id": id})
	}
	return apperrors.MapError(err)
}
