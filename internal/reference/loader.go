// Package reference loads the taxonomy, market table and job catalog that
// every analysis shares. Each table comes from the embedded defaults, a local
// file, an HTTP(S) URL, an S3 object or (catalog only) Postgres.
package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cv-match/internal/analysis"
	"cv-match/internal/cv"
	"cv-match/internal/storage"
	pkghttp "cv-match/pkg/http"
)

const (
	SourceBuiltin  = "builtin"
	SourcePostgres = "postgres"
)

// Sources names where each table is read from.
type Sources struct {
	Taxonomy string
	Market   string
	Catalog  string
}

// BuiltinSources reads every table from the embedded defaults.
func BuiltinSources() Sources {
	return Sources{Taxonomy: SourceBuiltin, Market: SourceBuiltin, Catalog: SourceBuiltin}
}

// CatalogStore lists job postings from a database.
type CatalogStore interface {
	ListJobPostings(ctx context.Context) ([]storage.JobPosting, error)
}

// Loader fetches reference documents. S3 and Catalogs are only needed when a
// source uses them. HTTP defaults to a client with a 30s timeout.
type Loader struct {
	S3       storage.ObjectGetter
	Catalogs CatalogStore
	HTTP     *pkghttp.Client
}

// Load reads the three tables concurrently and returns them ready for
// analysis.NewEngine. Catalog skills are canonicalized through the taxonomy.
func (l *Loader) Load(ctx context.Context, src Sources) (*analysis.Reference, error) {
	start := time.Now()

	var (
		taxonomy *cv.Taxonomy
		market   analysis.MarketTable
		catalog  []analysis.JobPosting
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := l.fetch(gCtx, src.Taxonomy, "data/taxonomy.json")
		if err != nil {
			return fmt.Errorf("taxonomy: %w", err)
		}
		taxonomy, err = ParseTaxonomy(data)
		if err != nil {
			return fmt.Errorf("taxonomy from %s: %w", src.Taxonomy, err)
		}
		return nil
	})

	g.Go(func() error {
		data, err := l.fetch(gCtx, src.Market, "data/market.json")
		if err != nil {
			return fmt.Errorf("market table: %w", err)
		}
		market, err = ParseMarket(data)
		if err != nil {
			return fmt.Errorf("market table from %s: %w", src.Market, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		catalog, err = l.loadCatalog(gCtx, src.Catalog)
		if err != nil {
			return fmt.Errorf("catalog from %s: %w", src.Catalog, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ref := &analysis.Reference{
		Taxonomy: taxonomy,
		Market:   market,
		Catalog:  CanonicalizeCatalog(taxonomy, catalog),
	}

	slog.InfoContext(ctx, "reference data loaded",
		"skills", taxonomy.Len(),
		"market_entries", len(market.Skills),
		"postings", len(ref.Catalog),
		"duration", time.Since(start),
	)
	return ref, nil
}

func (l *Loader) loadCatalog(ctx context.Context, source string) ([]analysis.JobPosting, error) {
	if source == SourcePostgres {
		if l.Catalogs == nil {
			return nil, errors.New("postgres catalog source requires a database connection")
		}
		rows, err := l.Catalogs.ListJobPostings(ctx)
		if err != nil {
			return nil, err
		}
		postings := FromStorage(rows)
		if err := validateStruct("catalog", catalogDocument{Postings: postings}); err != nil {
			return nil, err
		}
		return postings, nil
	}

	data, err := l.fetch(ctx, source, "data/catalog.json")
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func (l *Loader) fetch(ctx context.Context, source, builtin string) ([]byte, error) {
	switch {
	case source == "" || source == SourceBuiltin:
		return files.ReadFile(builtin)
	case strings.HasPrefix(source, "s3://"):
		if l.S3 == nil {
			return nil, fmt.Errorf("no object store configured for %s", source)
		}
		bucket, key, err := storage.ParseS3URI(source)
		if err != nil {
			return nil, err
		}
		return storage.DownloadObject(ctx, l.S3, bucket, key)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		client := l.HTTP
		if client == nil {
			client = pkghttp.NewClient(30 * time.Second)
		}
		return client.Fetch(ctx, source)
	case source == SourcePostgres:
		return nil, errors.New("postgres is only supported as a catalog source")
	default:
		data, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}
}

// Builtin loads the embedded defaults.
func Builtin(ctx context.Context) (*analysis.Reference, error) {
	return (&Loader{}).Load(ctx, BuiltinSources())
}
