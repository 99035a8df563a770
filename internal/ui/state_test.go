package ui_test

import (
	"net/url"
	"testing"

	"dari/internal/domain"
	"dari/internal/ui"
)

func TestInitial(t *testing.T) {
	s := ui.Initial()
	if s.View != ui.ViewLanding || s.Criteria.Status != "Rent" || s.Criteria.City != "All" || s.Criteria.Type != "All" {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if s.URL() != "/" {
		t.Fatalf("initial URL should be /, got %s", s.URL())
	}
}

func TestReduce_Transitions(t *testing.T) {
	s := ui.Reduce(ui.Initial(), ui.Navigate{To: ui.ViewApp})
	s = ui.Reduce(s, ui.OpenListing{ID: "NAI-APT-001"})
	if s.Selected != "NAI-APT-001" || s.View != ui.ViewApp {
		t.Fatalf("open listing: %+v", s)
	}

	// changing a filter closes the detail overlay
	f := ui.Reduce(s, ui.SelectCity{City: "Kigali"})
	if f.Selected != "" || f.Criteria.City != "Kigali" {
		t.Fatalf("select city: %+v", f)
	}
	if s.Selected != "NAI-APT-001" {
		t.Fatalf("Reduce mutated its input")
	}

	// list overlay survives navigation in both directions
	o := ui.Reduce(s, ui.OpenListForm{})
	o = ui.Reduce(o, ui.Navigate{To: ui.ViewLanding})
	if !o.ListOpen || o.Selected != "" || o.View != ui.ViewLanding {
		t.Fatalf("navigate landing: %+v", o)
	}
	o = ui.Reduce(o, ui.Navigate{To: ui.ViewApp})
	if !o.ListOpen {
		t.Fatalf("list overlay should stay open")
	}
	if c := ui.Reduce(o, ui.CloseListForm{}); c.ListOpen {
		t.Fatalf("close list form: %+v", c)
	}
}

func TestReduce_LeavingAppResetsFilters(t *testing.T) {
	s := ui.Reduce(ui.Initial(), ui.Navigate{To: ui.ViewApp})
	s = ui.Reduce(s, ui.SelectStatus{Status: "Buy"})
	s = ui.Reduce(s, ui.SelectCity{City: "Kigali"})
	s = ui.Reduce(s, ui.OpenListForm{})

	// re-selecting the current view keeps the filters
	if same := ui.Reduce(s, ui.Navigate{To: ui.ViewApp}); same.Criteria.City != "Kigali" {
		t.Fatalf("navigate to current view: %+v", same)
	}

	l := ui.Reduce(s, ui.Navigate{To: ui.ViewLanding})
	if l.URL() != "/?modal=list" {
		t.Fatalf("landing URL carries filters: %s", l.URL())
	}
	back := ui.Reduce(l, ui.Navigate{To: ui.ViewApp})
	if back.Criteria != ui.Initial().Criteria || !back.ListOpen {
		t.Fatalf("back in app: %+v", back)
	}
	if back.URL() != "/app?modal=list" {
		t.Fatalf("back in app URL: %s", back.URL())
	}

	// filters in a landing URL are ignored
	if q := ui.FromQuery(ui.ViewLanding, url.Values{"status": {"Buy"}, "city": {"Kigali"}}); q.Criteria != ui.Initial().Criteria {
		t.Fatalf("landing decoded filters: %+v", q)
	}
}

func TestReduce_Acknowledge(t *testing.T) {
	s := ui.Reduce(ui.Initial(), ui.OpenListForm{})
	s = ui.Reduce(s, ui.Acknowledge{Kind: domain.KindListProperty})
	if s.ListOpen || s.Ack != domain.KindListProperty {
		t.Fatalf("ack should close the form: %+v", s)
	}
	// any later action clears the banner
	if d := ui.Reduce(s, ui.Dismiss{}); d.Ack != "" {
		t.Fatalf("dismiss: %+v", d)
	}
	if d := ui.Reduce(s, ui.SelectStatus{Status: "Buy"}); d.Ack != "" {
		t.Fatalf("select status should clear ack: %+v", d)
	}
}

func TestQuery_RoundTrip(t *testing.T) {
	states := []ui.State{
		ui.Initial(),
		ui.Reduce(ui.Initial(), ui.Navigate{To: ui.ViewApp}),
		{View: ui.ViewApp, Criteria: domain.Criteria{Status: "All", City: "Kampala", Type: "Land"}, Selected: "KLA-LND-003", ListOpen: true},
		{View: ui.ViewLanding, Criteria: ui.Initial().Criteria, ListOpen: true, Ack: domain.KindNotify},
	}
	for _, s := range states {
		u, err := url.Parse(s.URL())
		if err != nil {
			t.Fatalf("parse %s: %v", s.URL(), err)
		}
		view := ui.ViewLanding
		if u.Path == "/app" {
			view = ui.ViewApp
		}
		if got := ui.FromQuery(view, u.Query()); got != s {
			t.Fatalf("round trip %s: got %+v want %+v", s.URL(), got, s)
		}
	}
}

func TestFromQuery_BadValues(t *testing.T) {
	q := url.Values{"status": {"Lease"}, "city": {"Kigali"}, "type": {"Castle"}, "ack": {"bogus"}}
	s := ui.FromQuery(ui.ViewApp, q)
	if s.Criteria != (domain.Criteria{Status: "Rent", City: "Kigali", Type: "All"}) || s.Ack != "" {
		t.Fatalf("unexpected state: %+v", s)
	}
	// the landing page never carries a selection
	if l := ui.FromQuery(ui.ViewLanding, url.Values{"listing": {"NAI-APT-001"}}); l.Selected != "" {
		t.Fatalf("landing should drop listing: %+v", l)
	}
}
