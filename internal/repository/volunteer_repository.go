package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// VolunteerFilter captures dashboard list parameters. MinistryArea wins over Category
// when both are set.
type VolunteerFilter struct {
	MinistryArea *string
	Category     *string
	Search       *string
	SortBy       domain.VolunteerSortOrder
}

// AreaCount is the number of volunteers who picked one ministry area.
type AreaCount struct {
	Category     string
	MinistryArea string
	Volunteers   int64
}

// VolunteerRepository encapsulates volunteer persistence.
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *domain.Volunteer) error
	Update(ctx context.Context, volunteer *domain.Volunteer) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Volunteer, error)
	List(ctx context.Context, filter VolunteerFilter) ([]domain.Volunteer, error)
	CountByArea(ctx context.Context) ([]AreaCount, error)
}

type volunteerRepository struct {
	pool *pgxpool.Pool
}

// NewVolunteerRepository instantiates repository.
func NewVolunteerRepository(pool *pgxpool.Pool) VolunteerRepository {
	return &volunteerRepository{pool: pool}
}

func (r *volunteerRepository) Create(ctx context.Context, volunteer *domain.Volunteer) error {
	const query = `
        INSERT INTO volunteers (name, phone, email)
        VALUES ($1,$2,$3)
        RETURNING id, signup_date, created_at, updated_at`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			volunteer.Name,
			volunteer.Phone,
			volunteer.Email,
		).Scan(&volunteer.ID, &volunteer.SignupDate, &volunteer.CreatedAt, &volunteer.UpdatedAt); err != nil {
			return fmt.Errorf("insert volunteer: %w", err)
		}
		return insertMinistries(ctx, tx, volunteer)
	})
}

func (r *volunteerRepository) Update(ctx context.Context, volunteer *domain.Volunteer) error {
	const query = `
        UPDATE volunteers SET name=$1, phone=$2, email=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING signup_date, created_at, updated_at`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			volunteer.Name,
			volunteer.Phone,
			volunteer.Email,
			volunteer.ID,
		).Scan(&volunteer.SignupDate, &volunteer.CreatedAt, &volunteer.UpdatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM volunteer_ministries WHERE volunteer_id=$1`, volunteer.ID); err != nil {
			return fmt.Errorf("clear ministries: %w", err)
		}
		return insertMinistries(ctx, tx, volunteer)
	})
}

func (r *volunteerRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM volunteers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *volunteerRepository) GetByID(ctx context.Context, id int64) (*domain.Volunteer, error) {
	const query = `
        SELECT id, name, phone, email, signup_date, created_at, updated_at
        FROM volunteers WHERE id=$1`

	var v domain.Volunteer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.Name,
		&v.Phone,
		&v.Email,
		&v.SignupDate,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}

	byVolunteer, err := r.loadMinistries(ctx, []int64{v.ID})
	if err != nil {
		return nil, err
	}
	v.Ministries = byVolunteer[v.ID]
	return &v, nil
}

func (r *volunteerRepository) List(ctx context.Context, filter VolunteerFilter) ([]domain.Volunteer, error) {
	query, args := buildVolunteerListQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result []domain.Volunteer
		ids    []int64
	)
	for rows.Next() {
		var v domain.Volunteer
		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Phone,
			&v.Email,
			&v.SignupDate,
			&v.CreatedAt,
			&v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return result, nil
	}

	byVolunteer, err := r.loadMinistries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Ministries = byVolunteer[result[i].ID]
	}
	return result, nil
}

func (r *volunteerRepository) CountByArea(ctx context.Context) ([]AreaCount, error) {
	const query = `
        SELECT category, ministry_area, COUNT(DISTINCT volunteer_id)
        FROM volunteer_ministries
        GROUP BY category, ministry_area`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AreaCount
	for rows.Next() {
		var ac AreaCount
		if err := rows.Scan(&ac.Category, &ac.MinistryArea, &ac.Volunteers); err != nil {
			return nil, err
		}
		result = append(result, ac)
	}
	return result, rows.Err()
}

func (r *volunteerRepository) loadMinistries(ctx context.Context, ids []int64) (map[int64][]domain.MinistrySelection, error) {
	const query = `
        SELECT id, volunteer_id, category, ministry_area
        FROM volunteer_ministries
        WHERE volunteer_id = ANY($1)
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.MinistrySelection, len(ids))
	for rows.Next() {
		var m domain.MinistrySelection
		if err := rows.Scan(&m.ID, &m.VolunteerID, &m.Category, &m.MinistryArea); err != nil {
			return nil, err
		}
		out[m.VolunteerID] = append(out[m.VolunteerID], m)
	}
	return out, rows.Err()
}

func insertMinistries(ctx context.Context, tx pgx.Tx, volunteer *domain.Volunteer) error {
	const query = `
        INSERT INTO volunteer_ministries (volunteer_id, category, ministry_area)
        VALUES ($1,$2,$3)
        RETURNING id`

	for i := range volunteer.Ministries {
		m := &volunteer.Ministries[i]
		m.VolunteerID = volunteer.ID
		if err := tx.QueryRow(ctx, query, volunteer.ID, m.Category, m.MinistryArea).Scan(&m.ID); err != nil {
			return fmt.Errorf("insert ministry selection: %w", err)
		}
	}
	return nil
}

func buildVolunteerListQuery(filter VolunteerFilter) (string, []any) {
	query := `
        SELECT v.id, v.name, v.phone, v.email, v.signup_date, v.created_at, v.updated_at
        FROM volunteers v`
	args := []any{}
	clauses := []string{}

	switch {
	case filter.MinistryArea != nil && *filter.MinistryArea != "":
		args = append(args, *filter.MinistryArea)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM volunteer_ministries m WHERE m.volunteer_id=v.id AND m.ministry_area=$%d)", len(args)))
	case filter.Category != nil && *filter.Category != "":
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM volunteer_ministries m WHERE m.volunteer_id=v.id AND m.category=$%d)", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Search))+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(v.name ILIKE $%d OR v.email ILIKE $%d OR v.phone ILIKE $%d)", n, n, n))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	switch filter.SortBy {
	case domain.SortByName:
		query += " ORDER BY LOWER(v.name) ASC, v.id ASC"
	case domain.SortByMinistry:
		query += " ORDER BY (SELECT COUNT(*) FROM volunteer_ministries c WHERE c.volunteer_id=v.id) DESC, v.signup_date DESC, v.id DESC"
	default:
		query += " ORDER BY v.signup_date DESC, v.id DESC"
	}
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
