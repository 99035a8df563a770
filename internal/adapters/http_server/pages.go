package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"dari/internal/app"
	"dari/internal/catalog"
	"dari/internal/domain"
	"dari/internal/ui"
)

const featuredCount = 3

// Pages serves the server-rendered site. Every page is a function of the
// ui.State decoded from its URL.
type Pages struct {
	Q      *app.QueryService
	Intake *app.IntakeService
	T      *Templates
	Now    func() time.Time
}

var listingActions = map[string]domain.SubmissionKind{
	"viewing": domain.KindBookViewing,
	"save":    domain.KindSave,
	"email":   domain.KindEmailAgent,
}

func (s *Server) MountPages(p *Pages) {
	s.mux.Get("/", p.landing)
	s.mux.Get("/app", p.browse)
	s.mux.Get("/listings/{id}/whatsapp", p.whatsapp)
	s.mux.Post("/notify", p.notify)
	s.mux.Post("/list", p.listProperty)
	s.mux.Post("/agents", p.agentSignup)
	s.mux.Post("/listings/{id}/{action}", p.listingAction)
}

type cardView struct {
	Listing domain.Listing
	Link    string
}

type selectedView struct {
	Listing      domain.Listing
	WhatsAppPath string
}

// pageView is the template data for both pages.
type pageView struct {
	Brand       string
	Title       string
	State       ui.State
	Views       []ui.View
	Cities      []string
	Categories  []domain.Category
	Statuses    []domain.Status
	StatusPills []string
	Featured    []cardView
	Results     []cardView
	Selected    *selectedView
	AckMessage  string
	Error       string
	FormErrors  map[string]string
	Form        domain.ListPropertyForm
	Email       string
	Year        int
}

func (v pageView) link(a ui.Action) string { return ui.Reduce(v.State, a).URL() }

func (v pageView) NavLink(to ui.View) string      { return v.link(ui.Navigate{To: to}) }
func (v pageView) StatusLink(status string) string { return v.link(ui.SelectStatus{Status: status}) }
func (v pageView) CloseLink() string               { return v.link(ui.CloseListing{}) }
func (v pageView) OpenListLink() string            { return v.link(ui.OpenListForm{}) }
func (v pageView) CloseListLink() string           { return v.link(ui.CloseListForm{}) }
func (v pageView) DismissLink() string             { return v.link(ui.Dismiss{}) }
func (v pageView) BrowseLink() string              { return v.link(ui.Navigate{To: ui.ViewApp}) }

// ReturnURL is where a form on this page redirects after it is accepted.
func (v pageView) ReturnURL() string { return v.DismissLink() }

func defaultForm() domain.ListPropertyForm {
	return domain.ListPropertyForm{
		Status: string(domain.StatusRent),
		City:   domain.Cities[0],
		Type:   string(domain.Categories[0]),
	}
}

func (p *Pages) newView(ctx context.Context, st ui.State) (string, pageView) {
	v := pageView{
		Brand:       catalog.BrandName,
		State:       st,
		Views:       ui.Views,
		Cities:      domain.Cities,
		Categories:  domain.Categories,
		Statuses:    domain.Statuses,
		StatusPills: []string{domain.All, string(domain.StatusRent), string(domain.StatusBuy)},
		AckMessage:  st.Ack.Acknowledgement(),
		FormErrors:  map[string]string{},
		Form:        defaultForm(),
		Year:        p.now().Year(),
	}

	if st.View != ui.ViewApp {
		v.Title = "Find, rent, or sell property"
		for _, l := range p.Q.Featured(featuredCount) {
			v.Featured = append(v.Featured, cardView{Listing: l, Link: v.link(ui.OpenListing{ID: l.ID})})
		}
		return pageLanding, v
	}

	v.Title = "Browse properties"
	for _, l := range p.Q.Browse(ctx, st.Criteria) {
		v.Results = append(v.Results, cardView{Listing: l, Link: v.link(ui.OpenListing{ID: l.ID})})
	}
	if st.Selected != "" {
		if l, err := p.Q.Listing(st.Selected); err == nil {
			v.Selected = &selectedView{Listing: l, WhatsAppPath: "/listings/" + url.PathEscape(l.ID) + "/whatsapp"}
		}
	}
	return pageApp, v
}

func (p *Pages) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pages) landing(w http.ResponseWriter, r *http.Request) {
	name, v := p.newView(r.Context(), ui.FromQuery(ui.ViewLanding, r.URL.Query()))
	p.T.Render(w, http.StatusOK, name, v)
}

func (p *Pages) browse(w http.ResponseWriter, r *http.Request) {
	name, v := p.newView(r.Context(), ui.FromQuery(ui.ViewApp, r.URL.Query()))
	p.T.Render(w, http.StatusOK, name, v)
}

func (p *Pages) whatsapp(w http.ResponseWriter, r *http.Request) {
	link, err := p.Q.ContactLink(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Msg("contact link failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, link, http.StatusFound)
}

func (p *Pages) notify(w http.ResponseWriter, r *http.Request) {
	st := returnState(r)
	email := r.FormValue("email")
	rc, err := p.Intake.Notify(r.Context(), email)
	p.finish(w, r, st, rc, err, func(v *pageView) { v.Email = email })
}

func (p *Pages) listProperty(w http.ResponseWriter, r *http.Request) {
	st := returnState(r)
	form := domain.ListPropertyForm{
		Status:   r.FormValue("status"),
		City:     r.FormValue("city"),
		Type:     r.FormValue("type"),
		Title:    r.FormValue("title"),
		PriceUSD: r.FormValue("priceUSD"),
		Contact:  r.FormValue("contact"),
	}
	rc, err := p.Intake.ListProperty(r.Context(), form)
	p.finish(w, r, st, rc, err, func(v *pageView) {
		v.State.ListOpen = true
		v.Form = form
	})
}

func (p *Pages) listingAction(w http.ResponseWriter, r *http.Request) {
	kind, ok := listingActions[chi.URLParam(r, "action")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	st := returnState(r)
	rc, err := p.Intake.ListingAction(r.Context(), kind, chi.URLParam(r, "id"))
	p.finish(w, r, st, rc, err, nil)
}

func (p *Pages) agentSignup(w http.ResponseWriter, r *http.Request) {
	st := returnState(r)
	rc, err := p.Intake.AgentSignup(r.Context())
	p.finish(w, r, st, rc, err, nil)
}

// finish redirects to the acknowledged state, or re-renders the originating
// page with the failure. keep restores what the user typed.
func (p *Pages) finish(w http.ResponseWriter, r *http.Request, st ui.State, rc domain.Receipt, err error, keep func(*pageView)) {
	if err == nil {
		http.Redirect(w, r, ui.Reduce(st, ui.Acknowledge{Kind: rc.Kind}).URL(), http.StatusSeeOther)
		return
	}

	name, v := p.newView(r.Context(), st)
	if keep != nil {
		keep(&v)
	}
	status := http.StatusBadGateway
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
		v.Error = "Please check the highlighted fields."
		v.FormErrors = ve.Fields
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusUnprocessableEntity
		v.Error = "That request could not be accepted."
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		v.Error = "That listing is no longer available."
	case errors.Is(err, domain.ErrIntakeRejected):
		v.Error = "Your submission was not accepted. Please try again later."
	default:
		v.Error = "We could not reach our team right now. Please try again."
	}
	p.T.Render(w, status, name, v)
}

// returnState decodes the page a form was posted from. Only local paths are
// honored; anything else falls back to the landing page.
func returnState(r *http.Request) ui.State {
	ret := r.FormValue("return")
	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, "/\\") {
		return ui.Initial()
	}
	u, err := url.Parse(ret)
	if err != nil || u.Host != "" {
		return ui.Initial()
	}
	view := ui.ViewLanding
	if u.Path == "/app" {
		view = ui.ViewApp
	}
	return ui.FromQuery(view, u.Query())
}
