package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// ErrNotSuperAdmin is returned when a transfer is attempted by someone who no longer holds the flag.
var ErrNotSuperAdmin = errors.New("caller is not the super admin")

// AdminRepository handles persistence for dashboard admins.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	UpdateProfile(ctx context.Context, admin *domain.AdminUser) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	GetByID(ctx context.Context, id int64) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
	TransferSuperAdmin(ctx context.Context, fromID, toID int64) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, email, hashed_password, name, is_active, is_super_admin, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (email, hashed_password, name, is_active, is_super_admin)
        VALUES (LOWER($1),$2,$3,$4,$5)
        RETURNING id, email, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		admin.IsActive,
		admin.IsSuperAdmin,
	).Scan(&admin.ID, &admin.Email, &admin.CreatedAt, &admin.UpdatedAt)
}

// UpdateProfile writes name and active flag only, so it never races a password
// change. The super admin flag only moves through TransferSuperAdmin.
func (r *adminRepository) UpdateProfile(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        UPDATE admin_users
        SET name=$1, is_active=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.Name,
		admin.IsActive,
		admin.ID,
	).Scan(&admin.UpdatedAt)
}

// UpdatePassword replaces the stored hash.
func (r *adminRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE admin_users SET hashed_password=$1, updated_at=NOW() WHERE id=$2`, hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id=$1`, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	return r.fetchSingle(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *adminRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+adminColumns+` FROM admin_users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdminUser
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *admin)
	}
	return result, rows.Err()
}

// TransferSuperAdmin clears the flag on fromID and sets it on the active admin toID
// in one transaction.
func (r *adminRepository) TransferSuperAdmin(ctx context.Context, fromID, toID int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
            UPDATE admin_users SET is_super_admin=FALSE, updated_at=NOW()
            WHERE id=$1 AND is_super_admin`, fromID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotSuperAdmin
		}

		cmd, err = tx.Exec(ctx, `
            UPDATE admin_users SET is_super_admin=TRUE, updated_at=NOW()
            WHERE id=$1 AND is_active`, toID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AdminUser, error) {
	return scanAdmin(r.pool.QueryRow(ctx, query, arg))
}

func scanAdmin(row pgx.Row) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	if err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Name,
		&admin.IsActive,
		&admin.IsSuperAdmin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
