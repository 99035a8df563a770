package domain

import "fmt"

// Criteria is the (status, city, type) triple. Each field holds All or a member
// of its closed set.
type Criteria struct {
	Status string `json:"status"`
	City   string `json:"city"`
	Type   string `json:"type"`
}

func AllCriteria() Criteria { return Criteria{Status: All, City: All, Type: All} }

// ParseCriteria maps raw selections to Criteria. Empty values become All;
// values outside their set are reported with ErrInvalidCriteria.
func ParseCriteria(status, city, typ string) (Criteria, error) {
	c := Criteria{Status: orAll(status), City: orAll(city), Type: orAll(typ)}
	if c.Status != All && !Status(c.Status).Valid() {
		return c, fmt.Errorf("%w: status %q", ErrInvalidCriteria, c.Status)
	}
	if c.City != All && !ValidCity(c.City) {
		return c, fmt.Errorf("%w: city %q", ErrInvalidCriteria, c.City)
	}
	if c.Type != All && !Category(c.Type).Valid() {
		return c, fmt.Errorf("%w: type %q", ErrInvalidCriteria, c.Type)
	}
	return c, nil
}

func orAll(s string) string {
	if s == "" {
		return All
	}
	return s
}

func (c Criteria) Match(l Listing) bool {
	return (c.Status == All || string(l.Status) == c.Status) &&
		(c.City == All || l.City == c.City) &&
		(c.Type == All || string(l.Type) == c.Type)
}

// Filter returns the listings matching every predicate, in source order.
// It never fails; no matches yields an empty, non-nil slice.
func Filter(listings []Listing, c Criteria) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if c.Match(l) {
			out = append(out, l)
		}
	}
	return out
}
