// Package main provides the feedcheck tool for inspecting the product feed
// exactly as the storefront would see it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"retro-hunt/internal/catalog"
	"retro-hunt/internal/config"
	"retro-hunt/internal/database"
	"retro-hunt/internal/feed"
	"retro-hunt/internal/model"
	"retro-hunt/internal/repository"

	"github.com/rs/zerolog"
)

func main() {
	asJSON := flag.Bool("json", false, "Print normalized products as JSON instead of a table")
	source := flag.String("source", "", "Override FEED_SOURCE (static, sheets, xlsx, s3, postgres)")
	category := flag.String("category", "", "Only show one category (Camera, Game, Watch)")
	sortMode := flag.String("sort", "", "Sort order (newest, price_asc, price_desc)")
	mirror := flag.Bool("mirror", false, "Copy the fetched rows into the PostgreSQL mirror table (DB_* settings)")
	timeout := flag.Duration("timeout", 30*time.Second, "Fetch timeout")
	flag.Parse()

	opts := options{
		source: *source,
		asJSON: *asJSON,
		mirror: *mirror,
		query: catalog.Query{
			Category: model.Category(*category),
			Sort:     catalog.SortMode(*sortMode),
		},
		timeout: *timeout,
	}

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	source  string
	asJSON  bool
	mirror  bool
	query   catalog.Query
	timeout time.Duration
}

func run(out io.Writer, opts options) error {
	q := opts.query
	if q.Category != "" && !q.Category.Valid() {
		return fmt.Errorf("invalid category %q", q.Category)
	}
	if !q.Sort.Valid() {
		return fmt.Errorf("invalid sort %q", q.Sort)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.source != "" {
		cfg.Feed.Source = opts.source
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid source override: %w", err)
		}
	}

	// Keep the tool quiet unless something goes wrong.
	cfg.Logger.Level = "warn"
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	totalRows := -1
	if backend.Source != nil {
		rows, err := backend.Source.Rows(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch %s feed: %w", backend.Source.Name(), err)
		}
		totalRows = len(rows)

		if opts.mirror {
			if err := mirrorRows(ctx, cfg, rows, logger); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "mirrored %d rows into %s\n", len(rows), cfg.Feed.Table)
		}
	} else if opts.mirror {
		return fmt.Errorf("the static catalogue has no rows to mirror")
	}

	products, err := backend.Repository.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	approved := len(products)
	products = catalog.Apply(products, q)

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	writeTable(out, products)
	writeSummary(out, sourceName(backend.Source), totalRows, approved, len(products))
	return nil
}

func mirrorRows(ctx context.Context, cfg *config.Config, rows []feed.Row, logger zerolog.Logger) error {
	if cfg.FeedSource() == config.SourcePostgres {
		return fmt.Errorf("the postgres source already reads the mirror table")
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to mirror database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureFeedTable(ctx, pool, cfg.Feed.Table); err != nil {
		return err
	}
	if _, err := database.ReplaceFeedRows(ctx, pool, cfg.Feed.Table, rows); err != nil {
		return err
	}
	return nil
}

func sourceName(source feed.Source) string {
	if source == nil {
		return config.SourceStatic
	}
	return source.Name()
}

func writeSummary(out io.Writer, source string, totalRows, approved, shown int) {
	fmt.Fprintln(out)
	if totalRows >= 0 {
		fmt.Fprintf(out, "source: %s  rows: %d  approved: %d  shown: %d\n", source, totalRows, approved, shown)
		return
	}
	fmt.Fprintf(out, "source: %s  products: %d  shown: %d\n", source, approved, shown)
}
