package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/culturemap/culturemap-backend/internal/apps/catalog"
	"github.com/culturemap/culturemap-backend/internal/config"
	"github.com/culturemap/culturemap-backend/internal/database"
	"github.com/culturemap/culturemap-backend/internal/importer"
	"github.com/culturemap/culturemap-backend/internal/logging"
	"gorm.io/gorm"
)

type options struct {
	file   string
	area   string
	dryRun bool
	every  time.Duration
}

func main() {
	logging.Setup()
	cfg := config.Load()

	var opts options
	flag.StringVar(&opts.file, "file", "", "read a saved Overpass JSON response instead of querying the API")
	flag.StringVar(&opts.area, "area", cfg.ImportArea, "administrative area name to import")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "parse and report without writing to the database")
	flag.DurationVar(&opts.every, "every", 0, "keep running and re-import on this interval (e.g. 168h)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		slog.Error("site import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	if opts.dryRun {
		return importOnce(ctx, cfg, nil, opts)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.MigrateShared(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := catalog.SeedCategories(db); err != nil {
		return fmt.Errorf("category seed failed: %w", err)
	}

	if opts.every > 0 {
		slog.Info("scheduled import started", "interval", opts.every.String())
		importer.RunEvery(ctx, opts.every, func(ctx context.Context) error {
			return importOnce(ctx, cfg, db, opts)
		})
		return nil
	}
	return importOnce(ctx, cfg, db, opts)
}

// importOnce loads, parses and stores one Overpass snapshot. A nil db only
// reports what would be imported.
func importOnce(ctx context.Context, cfg *config.Config, db *gorm.DB, opts options) error {
	resp, err := load(ctx, cfg, opts.file, opts.area)
	if err != nil {
		return fmt.Errorf("failed to load overpass data: %w", err)
	}

	places, skipped := importer.Extract(resp)
	slog.Info("overpass data parsed", "elements", len(resp.Elements), "places", len(places), "skipped", skipped)

	if db == nil {
		for _, p := range places {
			slog.Info("place", "osm_id", p.OsmID, "name", p.Name, "category", p.Category)
		}
		return nil
	}

	res, err := importer.Save(ctx, db, places)
	if err != nil {
		return err
	}
	slog.Info("import finished", "upserted", res.Upserted, "skipped", skipped+res.Skipped)
	return nil
}

func load(ctx context.Context, cfg *config.Config, file, area string) (*importer.Response, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return importer.Decode(f)
	}

	slog.Info("querying overpass API", "url", cfg.OverpassURL, "area", area)
	return importer.NewClient(cfg.OverpassURL).Fetch(ctx, importer.Query(area))
}
