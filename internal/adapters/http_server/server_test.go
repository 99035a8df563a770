package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpserver "dari/internal/adapters/http_server"
	"dari/internal/adapters/intake"
	"dari/internal/adapters/memory"
	"dari/internal/app"
	"dari/internal/catalog"
	"dari/internal/domain"
	"dari/web"
)

type downIntake struct{ err error }

func (d downIntake) Submit(context.Context, domain.Submission) error { return d.err }

func newTestServer(t *testing.T, in domain.Intake) *httptest.Server {
	t.Helper()
	ds, err := catalog.Load(context.Background(), catalog.Builtin{})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	tmpl, err := httpserver.LoadTemplates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	q := app.NewQueryService(ds, memory.New(), time.Minute)

	srv := httpserver.New()
	srv.Static(web.StaticFS())
	srv.MountHandlers(&httpserver.Handlers{Q: q})
	srv.MountPages(&httpserver.Pages{
		Q:      q,
		Intake: app.NewIntakeService(ds, in),
		T:      tmpl,
		Now:    func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

// noFollow returns redirects to the caller instead of following them.
func noFollow() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := noFollow().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func post(t *testing.T, ts *httptest.Server, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := noFollow().PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func TestFormatUSD(t *testing.T) {
	cases := map[float64]string{0: "$0", 900: "$900", 1600: "$1,600", 185000: "$185,000"}
	for in, want := range cases {
		if got := httpserver.FormatUSD(in); got != want {
			t.Errorf("FormatUSD(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPages_Landing(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	resp, body := get(t, ts, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{"Dari", "Get early access", "/app?listing=NAI-APT-001", "Half-Acre Plot - Kira", "2025 Dari. All rights reserved."} {
		if !strings.Contains(body, want) {
			t.Errorf("landing missing %q", want)
		}
	}
	// featured shows the first three only
	if strings.Contains(body, "Retail Space") {
		t.Error("landing shows a fourth listing")
	}
}

func TestPages_AppFilters(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	cases := []struct {
		query   string
		want    []string
		notWant []string
	}{
		{"", []string{"2BR Modern Apartment", "Retail Space", "$1,600"}, []string{"3BR Townhouse", "Half-Acre Plot"}},
		{"?status=Buy", []string{"3BR Townhouse", "Half-Acre Plot", "$185,000"}, []string{"2BR Modern Apartment", "Retail Space"}},
		{"?status=All&city=Nairobi&type=Commercial", []string{"Retail Space"}, []string{"2BR Modern Apartment"}},
		{"?status=Buy&city=Nairobi", []string{"No listings match your filters yet."}, []string{"3BR Townhouse"}},
	}
	for _, tc := range cases {
		resp, body := get(t, ts, "/app"+tc.query)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d", tc.query, resp.StatusCode)
		}
		for _, w := range tc.want {
			if !strings.Contains(body, w) {
				t.Errorf("%s: missing %q", tc.query, w)
			}
		}
		for _, w := range tc.notWant {
			if strings.Contains(body, w) {
				t.Errorf("%s: unexpected %q", tc.query, w)
			}
		}
	}
}

func TestPages_DetailOverlay(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	_, body := get(t, ts, "/app?listing=KGL-HSE-002")
	for _, want := range []string{"/listings/KGL-HSE-002/whatsapp", "Kwetu Developers", "Book a viewing", "Garden"} {
		if !strings.Contains(body, want) {
			t.Errorf("overlay missing %q", want)
		}
	}

	_, body = get(t, ts, "/app?listing=NOPE")
	if strings.Contains(body, "Book a viewing") {
		t.Error("overlay rendered for an unknown listing")
	}
}

func TestPages_ListModal(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	_, body := get(t, ts, "/?modal=list")
	if !strings.Contains(body, `action="/list"`) {
		t.Fatal("list modal not rendered")
	}
	_, body = get(t, ts, "/")
	if strings.Contains(body, `action="/list"`) {
		t.Fatal("list modal rendered without modal=list")
	}
}

func TestPages_WhatsAppRedirect(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	resp, _ := get(t, ts, "/listings/NAI-APT-001/whatsapp")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	want := "https://wa.me/254700000000?text=Hi%20Amani%20Estates%2C%20I'm%20interested%20in%202BR%20Modern%20Apartment%20-%20Kileleshwa%20on%20Dari."
	if got := resp.Header.Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}

	resp, _ = get(t, ts, "/listings/NOPE/whatsapp")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown listing status = %d", resp.StatusCode)
	}
}

func TestPages_NotifyPRG(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	resp, _ := post(t, ts, "/notify", url.Values{"email": {"amina@example.com"}, "return": {"/app?city=Kigali"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/app?ack=notify&city=Kigali" {
		t.Fatalf("Location = %q", loc)
	}

	_, body := get(t, ts, "/app?ack=notify&city=Kigali")
	if !strings.Contains(body, "You&#39;re on the list.") {
		t.Fatal("acknowledgement banner missing")
	}
}

func TestPages_NotifyInvalidEmail(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	resp, body := post(t, ts, "/notify", url.Values{"email": {"not-an-email"}, "return": {"/"}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "must be a valid email address") || !strings.Contains(body, `value="not-an-email"`) {
		t.Fatal("inline error or typed value missing")
	}
}

func TestPages_ReturnIsLocalOnly(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	for _, ret := range []string{"https://evil.example/", "//evil.example/app", ""} {
		resp, _ := post(t, ts, "/agents", url.Values{"return": {ret}})
		if loc := resp.Header.Get("Location"); loc != "/?ack=agent_signup" {
			t.Errorf("return %q: Location = %q", ret, loc)
		}
	}
}

func TestPages_ListProperty(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	form := url.Values{
		"status": {"Rent"}, "city": {"Kigali"}, "type": {"Houses"},
		"title": {"3BR in Kimihurura"}, "priceUSD": {"1200"}, "contact": {"+250 788 000 111"},
		"return": {"/app?modal=list"},
	}
	resp, _ := post(t, ts, "/list", form)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/app?ack=list_property" {
		t.Fatalf("status = %d, Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	form.Set("title", "")
	form.Set("priceUSD", "lots")
	resp, body := post(t, ts, "/list", form)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("invalid form status = %d", resp.StatusCode)
	}
	for _, want := range []string{`action="/list"`, "is required", "must be a number", `value="lots"`} {
		if !strings.Contains(body, want) {
			t.Errorf("re-rendered form missing %q", want)
		}
	}
}

func TestPages_ListingActions(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	resp, _ := post(t, ts, "/listings/NAI-APT-001/viewing", url.Values{"return": {"/app?listing=NAI-APT-001"}})
	if loc := resp.Header.Get("Location"); loc != "/app?ack=book_viewing&listing=NAI-APT-001" {
		t.Fatalf("Location = %q", loc)
	}
	resp, _ = post(t, ts, "/listings/NOPE/save", url.Values{"return": {"/app"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown listing status = %d", resp.StatusCode)
	}
	resp, _ = post(t, ts, "/listings/NAI-APT-001/delete", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown action status = %d", resp.StatusCode)
	}
}

func TestPages_IntakeFailure(t *testing.T) {
	ts := newTestServer(t, downIntake{err: errors.New("connection refused")})
	resp, body := post(t, ts, "/agents", url.Values{"return": {"/app"}})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "try again") {
		t.Fatal("error banner missing")
	}
}

func TestAPI_Listings(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	resp, body := get(t, ts, "/v1/listings?status=Buy")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Count    int              `json:"count"`
		Listings []domain.Listing `json:"listings"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || out.Listings[0].ID != "KGL-HSE-002" || out.Listings[1].ID != "KLA-LND-003" {
		t.Fatalf("unexpected listings: %+v", out)
	}

	// default status on the API is All
	_, body = get(t, ts, "/v1/listings")
	if !strings.Contains(body, `"count":4`) {
		t.Fatalf("unfiltered body: %s", body)
	}
}

func TestAPI_ListingsBadCriteria(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	resp, body := get(t, ts, "/v1/listings?status=Bogus")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(body, "Bogus") {
		t.Fatalf("detail does not name the value: %s", body)
	}
}

func TestAPI_ETag(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	resp, _ := get(t, ts, "/v1/listings?city=Nairobi")
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("no ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/listings?city=Nairobi", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("status = %d", resp2.StatusCode)
	}
}

func TestAPI_ListingAndContact(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})

	_, body := get(t, ts, "/v1/listings/KLA-LND-003")
	if !strings.Contains(body, `"contactLink":"https://wa.me/256770000000?text=`) || !strings.Contains(body, `"id":"KLA-LND-003"`) {
		t.Fatalf("body: %s", body)
	}

	resp, _ := get(t, ts, "/v1/listings/NOPE")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	_, body = get(t, ts, "/v1/listings/NAI-APT-001/contact?message="+url.QueryEscape("Is it available?"))
	var c struct{ Link string }
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatal(err)
	}
	if c.Link != "https://wa.me/254700000000?text=Is%20it%20available%3F" {
		t.Fatalf("link = %q", c.Link)
	}
}

func TestAPI_Catalog(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	_, body := get(t, ts, "/v1/catalog")
	var c struct {
		Brand   string   `json:"brand"`
		Cities  []string `json:"cities"`
		Count   int      `json:"count"`
		Version string   `json:"version"`
	}
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatal(err)
	}
	if c.Brand != "Dari" || len(c.Cities) != 3 || c.Count != 4 || c.Version == "" {
		t.Fatalf("catalog = %+v", c)
	}
}

func TestHealthAndStatic(t *testing.T) {
	ts := newTestServer(t, intake.Ack{})
	if resp, body := get(t, ts, "/healthz"); resp.StatusCode != 200 || body != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
	if resp, body := get(t, ts, "/static/dari.css"); resp.StatusCode != 200 || !strings.Contains(body, ".card") {
		t.Fatalf("static = %d", resp.StatusCode)
	}
}
