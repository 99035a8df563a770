package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"dari/internal/app"
	"dari/internal/catalog"
	"dari/internal/domain"
)

// Handlers serves the read-only JSON API.
type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type listingsResponse struct {
	Criteria domain.Criteria  `json:"criteria"`
	Count    int              `json:"count"`
	Listings []domain.Listing `json:"listings"`
	Version  string           `json:"version"`
}

type listingResponse struct {
	domain.Listing
	ContactLink string `json:"contactLink"`
}

type contactResponse struct {
	Link string `json:"link"`
}

type catalogResponse struct {
	Brand      string            `json:"brand"`
	Cities     []string          `json:"cities"`
	Categories []domain.Category `json:"categories"`
	Statuses   []domain.Status   `json:"statuses"`
	Count      int               `json:"count"`
	Version    string            `json:"version"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", h.getCatalog)
		r.Get("/listings", h.listListings)
		r.Get("/listings/{id}", h.getListing)
		r.Get("/listings/{id}/contact", h.getContact)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers 304 when the client already holds this representation.
func writeJSON(w http.ResponseWriter, r *http.Request, name string, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("handler", name).Msg("failed to write body")
	}
}

func (h *Handlers) getCatalog(w http.ResponseWriter, r *http.Request) {
	ds := h.Q.Dataset()
	writeJSON(w, r, "getCatalog", catalogResponse{
		Brand:      catalog.BrandName,
		Cities:     domain.Cities,
		Categories: domain.Categories,
		Statuses:   domain.Statuses,
		Count:      ds.Len(),
		Version:    ds.Version(),
	})
}

func (h *Handlers) listListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := domain.ParseCriteria(q.Get("status"), q.Get("city"), q.Get("type"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid criteria", err.Error())
		return
	}
	out := h.Q.Browse(r.Context(), c)
	writeJSON(w, r, "listListings", listingsResponse{
		Criteria: c,
		Count:    len(out),
		Listings: out,
		Version:  h.Q.Dataset().Version(),
	})
}

func (h *Handlers) getListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, err := h.Q.Listing(id)
	if err != nil {
		notFoundOr500(w, err, "listing not found")
		return
	}
	link, err := h.Q.ContactLink(id)
	if err != nil {
		notFoundOr500(w, err, "listing not found")
		return
	}
	writeJSON(w, r, "getListing", listingResponse{Listing: l, ContactLink: link})
}

func (h *Handlers) getContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		link string
		err  error
	)
	if r.URL.Query().Has("message") {
		link, err = h.Q.ContactLinkWithMessage(id, r.URL.Query().Get("message"))
	} else {
		link, err = h.Q.ContactLink(id)
	}
	if err != nil {
		notFoundOr500(w, err, "listing not found")
		return
	}
	writeJSON(w, r, "getContact", contactResponse{Link: link})
}

func notFoundOr500(w http.ResponseWriter, err error, detail string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", detail)
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}
