package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cv-match/docs" // Swagger docs
	"cv-match/internal/analysis"
	"cv-match/internal/api"
	"cv-match/internal/config"
	"cv-match/internal/fiberapi"
	"cv-match/internal/reference"
	"cv-match/internal/storage"
	"cv-match/internal/upload"
	"cv-match/pkg/logger"
)

// @title CV Match API
// @version 1.0
// @description Résumé analysis: skill extraction, candidate scoring, market estimate and job matching.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	loader := &reference.Loader{}

	if cfg.Reference.CatalogSource == config.SourcePostgres {
		slog.Info("connecting to database")
		db, err := storage.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		loader.Catalogs = db
	}

	if cfg.UsesS3() {
		client, err := storage.NewS3Client(ctx, storage.S3Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return err
		}
		loader.S3 = client
	}

	ref, err := loader.Load(ctx, reference.Sources{
		Taxonomy: cfg.Reference.TaxonomySource,
		Market:   cfg.Reference.MarketSource,
		Catalog:  cfg.Reference.CatalogSource,
	})
	if err != nil {
		return err
	}

	engine, err := analysis.NewEngine(ref,
		analysis.WithMaxDocumentBytes(cfg.Upload.MaxBytes),
		analysis.WithSummaryTopN(cfg.Analysis.SummaryTopN),
	)
	if err != nil {
		return err
	}

	uploads := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err := uploads.EnsureDir(); err != nil {
		return err
	}
	go upload.NewJanitor(uploads.Dir(), cfg.Upload.JanitorInterval, cfg.Upload.JanitorMaxAge).Start(ctx)

	svc := api.NewService(engine, uploads)

	switch cfg.Server.Engine {
	case config.EngineFiber:
		return serveFiber(ctx, cfg, svc)
	default:
		return serveHTTP(ctx, cfg, svc)
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, svc *api.Service) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(api.NewAPI(svc), cfg.Server.PublicURL+"/swagger/doc.json"),
		ReadTimeout:  30 * time.Second, // uploads
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", srv.Addr, "engine", config.EngineNetHTTP)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func serveFiber(ctx context.Context, cfg *config.Config, svc *api.Service) error {
	app := fiberapi.NewApp(svc)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", ":"+cfg.Server.Port, "engine", config.EngineFiber)
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}
