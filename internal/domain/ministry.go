package domain

// MinistryCategory groups related ministry areas.
type MinistryCategory struct {
	Name  string
	Areas []string
}

// MinistrySelection is one area a volunteer picked, with its parent category.
type MinistrySelection struct {
	ID           int64
	VolunteerID  int64
	Category     string
	MinistryArea string
}

// Catalog is the fixed, ordered list of ministry categories offered on the signup form.
type Catalog struct {
	categories []MinistryCategory
	index      map[string]map[string]struct{}
}

// NewCatalog builds a catalog preserving the given order.
func NewCatalog(categories []MinistryCategory) *Catalog {
	c := &Catalog{
		categories: categories,
		index:      make(map[string]map[string]struct{}, len(categories)),
	}
	for _, cat := range categories {
		areas := make(map[string]struct{}, len(cat.Areas))
		for _, area := range cat.Areas {
			areas[area] = struct{}{}
		}
		c.index[cat.Name] = areas
	}
	return c
}

// DefaultCatalog returns the church's ministry areas.
func DefaultCatalog() *Catalog {
	return NewCatalog([]MinistryCategory{
		{Name: "Children's Ministry", Areas: []string{"Childcare and/or Teaching", "VBS"}},
		{Name: "Hospitality", Areas: []string{"Greeters", "Make Contact with Visitors", "Kitchen Cleanup"}},
		{Name: "Media", Areas: []string{"Sound, etc.", "Social Media"}},
		{Name: "Mission Trips", Areas: []string{"BBQ Fundraisers"}},
		{Name: "Member Care", Areas: []string{"Meal Trains for members in need", "Help for Elderly/Widows"}},
		{Name: "Community Outreach", Areas: []string{"Trunk or Treat", "Easter Event", "New Outreach Programs"}},
		{Name: "Building/Grounds", Areas: []string{"Maintenance", "Security"}},
		{Name: "Recurring Service Events", Areas: []string{"318 Church (Third Saturday)", "5 Loaves 2 Fish (Thursday before 1st Saturday)"}},
	})
}

// Categories returns the catalog in display order.
func (c *Catalog) Categories() []MinistryCategory {
	out := make([]MinistryCategory, len(c.categories))
	for i, cat := range c.categories {
		out[i] = MinistryCategory{Name: cat.Name, Areas: append([]string(nil), cat.Areas...)}
	}
	return out
}

// HasCategory reports whether the category exists.
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.index[category]
	return ok
}

// Has reports whether area belongs to category.
func (c *Catalog) Has(category, area string) bool {
	areas, ok := c.index[category]
	if !ok {
		return false
	}
	_, ok = areas[area]
	return ok
}
