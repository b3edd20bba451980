package domain

import "time"

// AdminUser is a staff account allowed into the dashboard.
type AdminUser struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         *string
	IsActive     bool
	IsSuperAdmin bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName falls back to the email when no name is stored.
func (a *AdminUser) DisplayName() string {
	if a.Name != nil && *a.Name != "" {
		return *a.Name
	}
	return a.Email
}
