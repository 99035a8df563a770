// Package ui models the browser's view state as immutable values updated by a
// reducer. Pages are rendered from a State; every link is the encoding of the
// State produced by applying one Action to the current one.
package ui

import (
	"net/url"

	"dari/internal/domain"
)

type View string

const (
	ViewLanding View = "Landing"
	ViewApp     View = "App"
)

var Views = []View{ViewLanding, ViewApp}

type State struct {
	View     View
	Criteria domain.Criteria
	Selected string // listing id shown in the detail overlay
	ListOpen bool   // "List a Property" overlay, independent of View
	Ack      domain.SubmissionKind
}

// Initial is the state of a fresh session: the landing page, with the browser's
// filters preset to Rent in every city and type.
func Initial() State {
	return State{
		View:     ViewLanding,
		Criteria: domain.Criteria{Status: string(domain.StatusRent), City: domain.All, Type: domain.All},
	}
}

type Action interface{ apply(State) State }

type (
	Navigate      struct{ To View }
	SelectStatus  struct{ Status string }
	SelectCity    struct{ City string }
	SelectType    struct{ Type string }
	OpenListing   struct{ ID string }
	CloseListing  struct{}
	OpenListForm  struct{}
	CloseListForm struct{}
	Acknowledge   struct{ Kind domain.SubmissionKind }
	Dismiss       struct{}
)

// Reduce returns the state after a. s is never modified.
func Reduce(s State, a Action) State {
	s.Ack = ""
	return a.apply(s)
}

// Navigate to another view starts it afresh: filters return to their initial
// values. The list overlay is independent of the view and stays as it is.
func (a Navigate) apply(s State) State {
	if a.To != s.View {
		s.Criteria = Initial().Criteria
	}
	s.View = a.To
	if a.To != ViewApp {
		s.Selected = ""
	}
	return s
}

func (a SelectStatus) apply(s State) State {
	s.Criteria.Status = a.Status
	s.Selected = ""
	return s
}

func (a SelectCity) apply(s State) State {
	s.Criteria.City = a.City
	s.Selected = ""
	return s
}

func (a SelectType) apply(s State) State {
	s.Criteria.Type = a.Type
	s.Selected = ""
	return s
}

func (a OpenListing) apply(s State) State {
	s.View = ViewApp
	s.Selected = a.ID
	return s
}

func (CloseListing) apply(s State) State {
	s.Selected = ""
	return s
}

func (OpenListForm) apply(s State) State {
	s.ListOpen = true
	return s
}

func (CloseListForm) apply(s State) State {
	s.ListOpen = false
	return s
}

func (a Acknowledge) apply(s State) State {
	s.Ack = a.Kind
	if a.Kind == domain.KindListProperty {
		s.ListOpen = false
	}
	return s
}

func (Dismiss) apply(s State) State { return s }

// Path is the page a state renders on.
func (s State) Path() string {
	if s.View == ViewApp {
		return "/app"
	}
	return "/"
}

// Query encodes the non-default parts of s.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.View == ViewApp {
		def := Initial().Criteria
		if s.Criteria.Status != def.Status {
			q.Set("status", s.Criteria.Status)
		}
		if s.Criteria.City != def.City {
			q.Set("city", s.Criteria.City)
		}
		if s.Criteria.Type != def.Type {
			q.Set("type", s.Criteria.Type)
		}
		if s.Selected != "" {
			q.Set("listing", s.Selected)
		}
	}
	if s.ListOpen {
		q.Set("modal", "list")
	}
	if s.Ack != "" {
		q.Set("ack", string(s.Ack))
	}
	return q
}

// URL is Path plus Query.
func (s State) URL() string {
	q := s.Query().Encode()
	if q == "" {
		return s.Path()
	}
	return s.Path() + "?" + q
}

// FromQuery decodes a state for view. Values outside their sets fall back to the
// initial state's value rather than failing the page. Filters and the selection
// only exist on the App view.
func FromQuery(view View, q url.Values) State {
	s := Initial()
	s.View = view
	if view == ViewApp {
		if v := q.Get("status"); v == domain.All || domain.Status(v).Valid() {
			s.Criteria.Status = v
		}
		if v := q.Get("city"); v == domain.All || domain.ValidCity(v) {
			s.Criteria.City = v
		}
		if v := q.Get("type"); v == domain.All || domain.Category(v).Valid() {
			s.Criteria.Type = v
		}
		s.Selected = q.Get("listing")
	}
	s.ListOpen = q.Get("modal") == "list"
	if k := domain.SubmissionKind(q.Get("ack")); k.Valid() {
		s.Ack = k
	}
	return s
}
