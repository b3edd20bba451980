package dto

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// LoginRequest payload for admin login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Admin       AdminResponse `json:"admin"`
}

// PasswordChangeRequest payload.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AdminCreateRequest payload.
type AdminCreateRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// AdminUpdateRequest payload. Absent fields are left unchanged.
type AdminUpdateRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// AdminResponse response.
type AdminResponse struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	IsActive     bool      `json:"is_active"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminListResponse response.
type AdminListResponse struct {
	Admins []AdminResponse `json:"admins"`
	Total  int             `json:"total"`
}

// NewAdminResponse maps an admin without credentials.
func NewAdminResponse(a *domain.AdminUser) AdminResponse {
	return AdminResponse{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		IsActive:     a.IsActive,
		IsSuperAdmin: a.IsSuperAdmin,
		CreatedAt:    a.CreatedAt,
	}
}

// NewAdminListResponse maps a list of admins.
func NewAdminListResponse(admins []domain.AdminUser) AdminListResponse {
	out := AdminListResponse{Admins: make([]AdminResponse, 0, len(admins)), Total: len(admins)}
	for i := range admins {
		out.Admins = append(out.Admins, NewAdminResponse(&admins[i]))
	}
	return out
}
