// cmd/seeder/main.go
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ammerola/storefront-catalog/internal/adapters/db"
	"github.com/ammerola/storefront-catalog/internal/adapters/storage"
	"github.com/ammerola/storefront-catalog/internal/bootstrap"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/internal/pkg/config"
	"github.com/ammerola/storefront-catalog/internal/pkg/logger"
)

// seedResult records what happened to one domain.
type seedResult struct {
	Domain   string
	Records  int
	File     string
	Object   string
	Rows     int64
	Err      error
	Duration time.Duration
}

// seeder writes embedded seed catalogs to the configured destinations.
type seeder struct {
	cfg     *config.Config
	outDir  string
	objects storage.CatalogObjects
	repo    *db.CatalogRepository
	prefix  string
	dryRun  bool
}

func (s *seeder) domainConfig(name string) *domain.DomainConfig {
	for i := range s.cfg.Catalog.Domains {
		if s.cfg.Catalog.Domains[i].Name == name {
			return &s.cfg.Catalog.Domains[i]
		}
	}
	return &domain.DomainConfig{Name: name}
}

func (s *seeder) seed(ctx context.Context, name string) (res seedResult) {
	start := time.Now()
	res.Domain = name
	defer func() { res.Duration = time.Since(start) }()

	raw, ok := services.EmbeddedSeed(name)
	if !ok {
		res.Err = fmt.Errorf("no embedded seed for %q", name)
		return res
	}

	records, err := services.RawRecords(s.domainConfig(name), raw)
	if err != nil {
		res.Err = err
		return res
	}
	res.Records = len(records)

	if s.dryRun {
		return res
	}

	if s.outDir != "" {
		path := filepath.Join(s.outDir, name+".json")
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			res.Err = fmt.Errorf("failed to write %s: %w", path, err)
			return res
		}
		res.File = path
	}

	if s.objects != nil {
		key := strings.TrimSuffix(s.prefix, "/") + "/" + name + ".json"
		location, err := s.objects.Upload(ctx, strings.TrimPrefix(key, "/"), bytes.NewReader(raw), "application/json")
		if err != nil {
			res.Err = fmt.Errorf("failed to upload %s: %w", name, err)
			return res
		}
		res.Object = location
	}

	if s.repo != nil {
		rows, err := s.repo.ReplaceDomain(ctx, name, records)
		if err != nil {
			res.Err = err
			return res
		}
		res.Rows = rows
	}

	return res
}

func main() {
	var (
		outDir   = flag.String("out", "data/catalogs", "Directory to write <domain>.json files to (empty to skip)")
		only     = flag.String("domains", "", "Comma-separated domains to seed (default: every embedded seed)")
		toS3     = flag.Bool("s3", false, "Upload the catalogs to the configured S3 bucket")
		prefix   = flag.String("s3-prefix", "catalogs", "Object key prefix for --s3")
		toPG     = flag.Bool("postgres", false, "Migrate the database and load the catalogs into catalog_items")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun   = flag.Bool("dry-run", false, "Decode the seeds without writing anything")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s := &seeder{cfg: cfg, outDir: *outDir, prefix: *prefix, dryRun: *dryRun}

	if !*dryRun && *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			slogger.Error("failed to create output directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if *toS3 && !*dryRun {
		s3cfg := bootstrap.S3Config(cfg)
		s3cfg.CreateBucket = true
		objects, err := storage.NewS3Storage(ctx, s3cfg, slogger)
		if err != nil {
			slogger.Error("failed to initialize S3 storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		s.objects = objects
	}

	if *toPG && !*dryRun {
		if err := bootstrap.RunMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		database, err := db.NewDatabase(ctx, bootstrap.DatabaseConfig(cfg), slogger)
		if err != nil {
			slogger.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.Close()
		s.repo = db.NewCatalogRepository(database, slogger)
	}

	names := services.SeedNames()
	if *only != "" {
		names = strings.Split(*only, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
	}
	sort.Strings(names)

	var results []seedResult
	failed := 0
	for i, name := range names {
		fmt.Printf("PROGRESS: Seeding %d/%d: %s\n", i+1, len(names), name)
		res := s.seed(ctx, name)
		if res.Err != nil {
			failed++
			slogger.Error("failed to seed domain",
				slog.String("domain", name),
				slog.String("error", res.Err.Error()))
		} else {
			slogger.Info("domain seeded",
				slog.String("domain", name),
				slog.Int("records", res.Records),
				slog.Duration("duration", res.Duration))
		}
		results = append(results, res)
	}

	printSummary(results, *dryRun)

	slogger.Info("seed operation completed",
		slog.Int("domains", len(results)),
		slog.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

func printSummary(results []seedResult, dryRun bool) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  FAILED  %-16s %v\n", r.Domain, r.Err)
			continue
		}
		fmt.Printf("  OK      %-16s %3d records", r.Domain, r.Records)
		if r.File != "" {
			fmt.Printf("  file=%s", r.File)
		}
		if r.Object != "" {
			fmt.Printf("  object=%s", r.Object)
		}
		if r.Rows > 0 {
			fmt.Printf("  rows=%d", r.Rows)
		}
		fmt.Println()
	}
	if dryRun {
		fmt.Println("\n[DRY RUN] Nothing was written")
	}
}
