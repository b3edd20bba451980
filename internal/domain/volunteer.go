package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	MaxNameLength  = 255
	MaxEmailLength = 255
	MaxPhoneLength = 50
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)

// Volunteer is a submitted signup.
type Volunteer struct {
	ID         int64
	Name       string
	Phone      string
	Email      string
	SignupDate time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Ministries []MinistrySelection
}

// VolunteerSortOrder enumerates dashboard list orderings.
type VolunteerSortOrder string

const (
	SortByDate     VolunteerSortOrder = "date"
	SortByName     VolunteerSortOrder = "name"
	SortByMinistry VolunteerSortOrder = "ministry"
)

// ParseSortOrder falls back to date ordering for unknown values.
func ParseSortOrder(raw string) VolunteerSortOrder {
	switch VolunteerSortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortByName:
		return SortByName
	case SortByMinistry:
		return SortByMinistry
	default:
		return SortByDate
	}
}

// Normalize trims contact fields, lowercases the email and drops duplicate selections.
func (v *Volunteer) Normalize() {
	v.Name = strings.TrimSpace(v.Name)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))

	seen := make(map[[2]string]struct{}, len(v.Ministries))
	deduped := v.Ministries[:0]
	for _, m := range v.Ministries {
		m.Category = strings.TrimSpace(m.Category)
		m.MinistryArea = strings.TrimSpace(m.MinistryArea)
		key := [2]string{m.Category, m.MinistryArea}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, m)
	}
	v.Ministries = deduped
}

// Validate checks contact fields and ministry selections against the catalog.
// The returned map is keyed by field name and is empty when the volunteer is valid.
func (v *Volunteer) Validate(catalog *Catalog) map[string]any {
	problems := map[string]any{}

	switch {
	case v.Name == "":
		problems["name"] = "name is required"
	case len(v.Name) > MaxNameLength:
		problems["name"] = fmt.Sprintf("name must be at most %d characters", MaxNameLength)
	}

	if err := ValidateEmail(v.Email); err != nil {
		problems["email"] = err.Error()
	}

	switch {
	case v.Phone == "":
		problems["phone"] = "phone is required"
	case len(v.Phone) > MaxPhoneLength || !phonePattern.MatchString(v.Phone) || countDigits(v.Phone) < 7:
		problems["phone"] = "phone must contain at least 7 digits"
	}

	if len(v.Ministries) == 0 {
		problems["ministries"] = "select at least one ministry area"
	}
	for _, m := range v.Ministries {
		if !catalog.HasCategory(m.Category) {
			problems["ministries"] = fmt.Sprintf("Invalid category: %s", m.Category)
			break
		}
		if !catalog.Has(m.Category, m.MinistryArea) {
			problems["ministries"] = fmt.Sprintf("Invalid ministry area '%s' for category '%s'", m.MinistryArea, m.Category)
			break
		}
	}

	return problems
}

// Categories returns the distinct categories of the selections in first-seen order.
func (v *Volunteer) Categories() []string {
	seen := make(map[string]struct{}, len(v.Ministries))
	var out []string
	for _, m := range v.Ministries {
		if _, ok := seen[m.Category]; ok {
			continue
		}
		seen[m.Category] = struct{}{}
		out = append(out, m.Category)
	}
	return out
}

// Areas returns the selected ministry areas in selection order.
func (v *Volunteer) Areas() []string {
	out := make([]string, 0, len(v.Ministries))
	for _, m := range v.Ministries {
		out = append(out, m.MinistryArea)
	}
	return out
}

// ValidateEmail accepts a bare address such as "name@example.org".
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
