package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "dari/internal/adapters/http_server"
	"dari/internal/adapters/intake"
	"dari/internal/adapters/memory"
	"dari/internal/adapters/observability"
	redisad "dari/internal/adapters/redis"
	"dari/internal/app"
	"dari/internal/catalog"
	"dari/internal/domain"
	"dari/internal/shared"
	mysqlrepo "dari/internal/storage/mysql"
	"dari/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// catalog
	src, closeSrc := listingSource(cfg)
	ds, err := catalog.Load(ctx, src)
	closeSrc()
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("catalog load failed")
	}
	log.Info().Str("source", cfg.CatalogSource).Int("listings", ds.Len()).Str("version", ds.Version()).Msg("catalog loaded")

	// deps
	cache, closeCache := filterCache(ctx, cfg)
	defer closeCache()
	q := app.NewQueryService(ds, cache, cfg.CacheTTL)
	in := app.NewIntakeService(ds, intakeClient(cfg))

	tmpl, err := server.LoadTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("templates failed to parse")
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.Static(web.StaticFS())
	srv.MountHandlers(&server.Handlers{Q: q})
	srv.MountPages(&server.Pages{Q: q, Intake: in, T: tmpl})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// listingSource picks where the catalog is read from. The returned func
// releases whatever the source holds open.
func listingSource(cfg shared.Config) (domain.ListingSource, func()) {
	switch cfg.CatalogSource {
	case "builtin":
		return catalog.Builtin{}, func() {}
	case "file":
		return catalog.File{Path: cfg.CatalogFile}, func() {}
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), func() { _ = db.Close() }
	default:
		log.Fatal().Str("source", cfg.CatalogSource).Msg("CATALOG_SOURCE must be builtin, file or mysql")
		return nil, nil
	}
}

func filterCache(ctx context.Context, cfg shared.Config) (domain.Cache, func()) {
	if cfg.RedisAddr == "" {
		return memory.New(), func() {}
	}
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rc.Ping(ctx); err != nil {
		// filtering works without a cache; keep going and let reads fail soft
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
	}
	return rc, func() { _ = rc.Close() }
}

func intakeClient(cfg shared.Config) domain.Intake {
	if cfg.IntakeURL == "" {
		return intake.Ack{}
	}
	wh, err := intake.NewWebhook(cfg.IntakeURL, cfg.IntakeKey, cfg.IntakeRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize intake webhook")
	}
	return wh
}
