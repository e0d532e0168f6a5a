// Command import_catalog loads a job catalog JSON file into the
// job_postings table used by CATALOG_SOURCE=postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"cv-match/internal/config"
	"cv-match/internal/reference"
	"cv-match/internal/storage"
	"cv-match/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	var (
		file     string
		taxonomy string
		dryRun   bool
	)
	flag.StringVar(&file, "file", "", "Path to the catalog JSON file (required)")
	flag.StringVar(&taxonomy, "taxonomy", config.SourceBuiltin, "Taxonomy used to canonicalize required skills (builtin or a path)")
	flag.BoolVar(&dryRun, "dry-run", true, "If true, do not persist postings; just print them")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger.Setup(cfg.LogLevel)

	if file == "" {
		slog.Error("-file is required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg.DatabaseURL, file, taxonomy, dryRun); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dsn, file, taxonomy string, dryRun bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	postings, err := reference.ParseCatalog(data)
	if err != nil {
		return err
	}

	src := reference.BuiltinSources()
	src.Taxonomy = taxonomy
	ref, err := (&reference.Loader{}).Load(ctx, src)
	if err != nil {
		return err
	}
	rows := reference.ToStorage(reference.CanonicalizeCatalog(ref.Taxonomy, postings))

	if dryRun {
		for _, r := range rows {
			slog.Info("would upsert posting", "id", r.ID, "title", r.Title, "skills", r.RequiredSkills)
		}
		slog.Info("dry run complete", "postings", len(rows))
		return nil
	}

	if dsn == "" {
		return errors.New("DATABASE_URL is required unless -dry-run is set")
	}

	db, err := storage.NewDB(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := db.UpsertJobPostings(ctx, rows); err != nil {
		return err
	}

	slog.Info("catalog imported", "postings", len(rows))
	return nil
}
