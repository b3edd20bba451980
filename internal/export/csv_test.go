package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

func TestWriteVolunteersCSV(t *testing.T) {
	volunteers := []domain.Volunteer{
		{
			ID:         7,
			Name:       "Ruth, Jr.",
			Phone:      "555-123-4567",
			Email:      "ruth@example.org",
			SignupDate: time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
			Ministries: []domain.MinistrySelection{
				{Category: "Media", MinistryArea: "Sound, etc."},
				{Category: "Hospitality", MinistryArea: "Greeters"},
				{Category: "Media", MinistryArea: "Social Media"},
			},
		},
		{ID: 8, Name: "Ben", Phone: "555-000-0000", Email: "ben@example.org", SignupDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVolunteersCSV(&buf, volunteers))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Name", "Phone", "Email", "Signup Date", "Ministry Areas", "Categories"}, rows[0])
	assert.Equal(t, []string{
		"7", "Ruth, Jr.", "555-123-4567", "ruth@example.org", "2024-03-05 14:07:09",
		"Sound, etc., Greeters, Social Media", "Media, Hospitality",
	}, rows[1])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "", rows[2][6])
}

func TestWriteVolunteersCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVolunteersCSV(&buf, nil))
	assert.Equal(t, "ID,Name,Phone,Email,Signup Date,Ministry Areas,Categories\n", buf.String())
}
