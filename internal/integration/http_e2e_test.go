//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	httpserver "dari/internal/adapters/http_server"
	"dari/internal/adapters/intake"
	redisad "dari/internal/adapters/redis"
	"dari/internal/app"
	"dari/internal/catalog"
	"dari/internal/domain"
	mysqlrepo "dari/internal/storage/mysql"
	"dari/internal/storage/mysql/mysqltest"
	"dari/web"
)

// Seeds MySQL from the builtin catalog, boots the full stack on top of it with a
// Redis filter cache, and browses through both the JSON API and the HTML pages.
func TestHTTP_EndToEnd_MySQLCatalog(t *testing.T) {
	db := mysqltest.Start(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	seed, err := catalog.Load(ctx, catalog.Builtin{})
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	for i, l := range seed.All() {
		if err := repo.UpsertListing(ctx, i, l); err != nil {
			t.Fatalf("UpsertListing %s: %v", l.ID, err)
		}
	}

	ds, err := catalog.Load(ctx, repo)
	if err != nil {
		t.Fatalf("load from mysql: %v", err)
	}
	if ds.Version() != seed.Version() {
		t.Fatalf("round trip changed the dataset: %s != %s", ds.Version(), seed.Version())
	}

	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	q := app.NewQueryService(ds, cache, time.Minute)
	tmpl, err := httpserver.LoadTemplates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	srv := httpserver.New()
	srv.Static(web.StaticFS())
	srv.MountHandlers(&httpserver.Handlers{Q: q})
	srv.MountPages(&httpserver.Pages{Q: q, Intake: app.NewIntakeService(ds, intake.Ack{}), T: tmpl})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// JSON API, twice: the second answer comes from the Redis memo
	for pass := 0; pass < 2; pass++ {
		res, err := http.Get(ts.URL + "/v1/listings?city=Nairobi")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		var body struct {
			Count    int              `json:"count"`
			Listings []domain.Listing `json:"listings"`
		}
		err = json.NewDecoder(res.Body).Decode(&body)
		res.Body.Close()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if res.StatusCode != http.StatusOK || body.Count != 2 ||
			body.Listings[0].ID != "NAI-APT-001" || body.Listings[1].ID != "NAI-COM-004" {
			t.Fatalf("pass %d: status %d body %+v", pass, res.StatusCode, body)
		}
		if pass == 0 && len(mr.Keys()) == 0 {
			t.Fatal("filter result was not memoized in redis")
		}
	}

	// HTML
	res, err := http.Get(ts.URL + "/app?status=Buy&listing=KLA-LND-003")
	if err != nil {
		t.Fatalf("GET page: %v", err)
	}
	page, _ := io.ReadAll(res.Body)
	res.Body.Close()
	for _, want := range []string{"3BR Townhouse - Kibagabaga", "Pearl Land Co.", "/listings/KLA-LND-003/whatsapp"} {
		if !strings.Contains(string(page), want) {
			t.Errorf("page missing %q", want)
		}
	}
}
