package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// NoteRepository persists admin notes on volunteers.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.VolunteerNote) error
	GetByID(ctx context.Context, id int64) (*domain.VolunteerNote, error)
	ListByVolunteer(ctx context.Context, volunteerID int64) ([]domain.VolunteerNote, error)
	Delete(ctx context.Context, id int64) error
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository constructs repository.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

const noteSelect = `
        SELECT n.id, n.volunteer_id, n.admin_id, a.email, a.name, n.note_text, n.created_at
        FROM volunteer_notes n
        LEFT JOIN admin_users a ON a.id = n.admin_id`

func (r *noteRepository) Create(ctx context.Context, note *domain.VolunteerNote) error {
	const query = `
        INSERT INTO volunteer_notes (volunteer_id, admin_id, note_text)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		note.VolunteerID,
		note.AdminID,
		note.NoteText,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.VolunteerNote, error) {
	return scanNote(r.pool.QueryRow(ctx, noteSelect+` WHERE n.id=$1`, id))
}

func (r *noteRepository) ListByVolunteer(ctx context.Context, volunteerID int64) ([]domain.VolunteerNote, error) {
	rows, err := r.pool.Query(ctx, noteSelect+` WHERE n.volunteer_id=$1 ORDER BY n.created_at DESC, n.id DESC`, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.VolunteerNote
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM volunteer_notes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanNote(row pgx.Row) (*domain.VolunteerNote, error) {
	var note domain.VolunteerNote
	if err := row.Scan(
		&note.ID,
		&note.VolunteerID,
		&note.AdminID,
		&note.AdminEmail,
		&note.AdminName,
		&note.NoteText,
		&note.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &note, nil
}
