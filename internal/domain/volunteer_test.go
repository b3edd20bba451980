package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVolunteer() *Volunteer {
	return &Volunteer{
		Name:  "Ruth Miller",
		Phone: "(555) 123-4567",
		Email: "ruth@example.org",
		Ministries: []MinistrySelection{
			{Category: "Hospitality", MinistryArea: "Greeters"},
		},
	}
}

func TestVolunteerValidate_Valid(t *testing.T) {
	v := validVolunteer()
	assert.Empty(t, v.Validate(DefaultCatalog()))
}

func TestVolunteerValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *Volunteer)
		field  string
	}{
		{"missing name", func(v *Volunteer) { v.Name = "" }, "name"},
		{"long name", func(v *Volunteer) { v.Name = strings.Repeat("a", MaxNameLength+1) }, "name"},
		{"missing email", func(v *Volunteer) { v.Email = "" }, "email"},
		{"bad email", func(v *Volunteer) { v.Email = "ruth@" }, "email"},
		{"display name email", func(v *Volunteer) { v.Email = "Ruth <ruth@example.org>" }, "email"},
		{"missing phone", func(v *Volunteer) { v.Phone = "" }, "phone"},
		{"letters in phone", func(v *Volunteer) { v.Phone = "call me maybe" }, "phone"},
		{"short phone", func(v *Volunteer) { v.Phone = "123-45" }, "phone"},
		{"no ministries", func(v *Volunteer) { v.Ministries = nil }, "ministries"},
		{"unknown category", func(v *Volunteer) {
			v.Ministries = []MinistrySelection{{Category: "Choir", MinistryArea: "Greeters"}}
		}, "ministries"},
		{"area from another category", func(v *Volunteer) {
			v.Ministries = []MinistrySelection{{Category: "Media", MinistryArea: "Greeters"}}
		}, "ministries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVolunteer()
			tt.mutate(v)
			problems := v.Validate(DefaultCatalog())
			assert.Contains(t, problems, tt.field)
		})
	}
}

func TestVolunteerValidate_AreaMessage(t *testing.T) {
	v := validVolunteer()
	v.Ministries = []MinistrySelection{{Category: "Media", MinistryArea: "VBS"}}

	problems := v.Validate(DefaultCatalog())
	assert.Equal(t, "Invalid ministry area 'VBS' for category 'Media'", problems["ministries"])
}

func TestVolunteerNormalize(t *testing.T) {
	v := &Volunteer{
		Name:  "  Ruth Miller ",
		Phone: " 555 123 4567 ",
		Email: " Ruth@Example.ORG ",
		Ministries: []MinistrySelection{
			{Category: "Hospitality", MinistryArea: "Greeters"},
			{Category: " Hospitality", MinistryArea: "Greeters "},
			{Category: "Media", MinistryArea: "Social Media"},
		},
	}
	v.Normalize()

	assert.Equal(t, "Ruth Miller", v.Name)
	assert.Equal(t, "555 123 4567", v.Phone)
	assert.Equal(t, "ruth@example.org", v.Email)
	require.Len(t, v.Ministries, 2)
	assert.Equal(t, "Social Media", v.Ministries[1].MinistryArea)
}

func TestVolunteerCategoriesAndAreas(t *testing.T) {
	v := &Volunteer{Ministries: []MinistrySelection{
		{Category: "Media", MinistryArea: "Social Media"},
		{Category: "Hospitality", MinistryArea: "Greeters"},
		{Category: "Media", MinistryArea: "Sound, etc."},
	}}

	assert.Equal(t, []string{"Media", "Hospitality"}, v.Categories())
	assert.Equal(t, []string{"Social Media", "Greeters", "Sound, etc."}, v.Areas())
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortByName, ParseSortOrder("NAME"))
	assert.Equal(t, SortByMinistry, ParseSortOrder("ministry"))
	assert.Equal(t, SortByDate, ParseSortOrder(""))
	assert.Equal(t, SortByDate, ParseSortOrder("random"))
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()

	cats := c.Categories()
	require.Len(t, cats, 8)
	assert.Equal(t, "Children's Ministry", cats[0].Name)
	assert.Equal(t, "Recurring Service Events", cats[7].Name)

	assert.True(t, c.Has("Member Care", "Help for Elderly/Widows"))
	assert.False(t, c.Has("Member Care", "Greeters"))
	assert.False(t, c.HasCategory("Choir"))

	cats[0].Areas[0] = "mutated"
	assert.True(t, c.Has("Children's Ministry", "Childcare and/or Teaching"))
}

func TestPasswordResetTokenUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := &PasswordResetToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, tok.Usable(now))
	assert.False(t, tok.Usable(now.Add(2*time.Hour)))

	used := now
	tok.UsedAt = &used
	assert.False(t, tok.Usable(now))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long enough"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", MaxPasswordBytes)))
	assert.EqualError(t, ValidatePassword(strings.Repeat("x", MaxPasswordBytes+1)), "password must be at most 72 bytes")
	assert.Error(t, ValidatePassword(strings.Repeat("é", 37)), "limit counts bytes, not runes")
}

func TestAdminDisplayName(t *testing.T) {
	a := &AdminUser{Email: "admin@example.org"}
	assert.Equal(t, "admin@example.org", a.DisplayName())
	name := "Pastor Dan"
	a.Name = &name
	assert.Equal(t, "Pastor Dan", a.DisplayName())
}
