package domain

import "time"

// MaxNoteLength bounds the free-text body of a note.
const MaxNoteLength = 2000

// VolunteerNote is free text an admin attached to a volunteer.
type VolunteerNote struct {
	ID          int64
	VolunteerID int64
	AdminID     *int64
	AdminEmail  *string
	AdminName   *string
	NoteText    string
	CreatedAt   time.Time
}
