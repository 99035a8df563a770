package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"dari/internal/adapters/observability"
	"dari/internal/catalog"
	"dari/internal/domain"
	"dari/internal/shared"
	mysqlrepo "dari/internal/storage/mysql"
)

// seeder copies a validated catalog (builtin or YAML file) into the MySQL
// listings table, preserving order. Rows for listings no longer in the catalog
// are removed once every upsert has succeeded.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var src domain.ListingSource = catalog.Builtin{}
	if cfg.CatalogSource == "file" {
		src = catalog.File{Path: cfg.CatalogFile}
	}
	ds, err := catalog.Load(ctx, src)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog rejected")
	}

	log.Info().
		Str("source", cfg.CatalogSource).
		Int("listings", ds.Len()).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	sem := semaphore.NewWeighted(int64(max(cfg.SeedWorkers, 1)))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)

	for pos, l := range ds.All() {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(pos int, l domain.Listing) {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.UpsertListing(ctx, pos, l); err != nil {
				failed.Add(1)
				log.Warn().Str("id", l.ID).Err(err).Msg("upsert failed")
				return
			}
			log.Debug().Str("id", l.ID).Msg("upsert ok")
		}(pos, l)
	}

	wg.Wait()
	if f := failed.Load(); f > 0 {
		log.Fatal().Int32("failed", f).Msg("seeding incomplete, stale rows kept")
	}

	keep := make([]string, 0, ds.Len())
	for _, l := range ds.All() {
		keep = append(keep, l.ID)
	}
	removed, err := repo.PruneListings(ctx, keep)
	if err != nil {
		log.Fatal().Err(err).Msg("prune failed")
	}

	n, err := repo.CountListings(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count failed")
	}
	log.Info().Int("stored", n).Int64("removed", removed).Msg("seeding completed")
}
