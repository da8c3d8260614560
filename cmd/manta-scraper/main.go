package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/pradumnakadam07/manta-scraper/internal/browser"
	"github.com/pradumnakadam07/manta-scraper/internal/config"
	"github.com/pradumnakadam07/manta-scraper/internal/export"
	"github.com/pradumnakadam07/manta-scraper/internal/model"
	"github.com/pradumnakadam07/manta-scraper/internal/scrape"
	"github.com/pradumnakadam07/manta-scraper/internal/source"
	"github.com/pradumnakadam07/manta-scraper/internal/storage"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
		os.Exit(2)
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo *storage.DuckDBRepo
	if cfg.DBPath != "" {
		open := storage.NewDuckDBRepo
		if cfg.ExportOnly {
			open = storage.OpenDuckDBRepo
		}
		repo, err = open(cfg.DBPath, logger.With("component", "storage"))
		if err != nil {
			logger.Error("DB connection failed", "err", err)
			os.Exit(1)
		}
		defer repo.Close()
		if err := repo.Init(ctx); err != nil {
			logger.Error("DB init failed", "err", err)
			os.Exit(1)
		}
	}

	if cfg.ExportOnly {
		if err := exportStored(ctx, repo, cfg, logger); err != nil {
			logger.Error("Export failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, repo, cfg, logger); err != nil {
		logger.Error("Scrape failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, repo *storage.DuckDBRepo, cfg config.Config, logger *slog.Logger) error {
	adapter, err := source.NewManta(cfg.BaseURL)
	if err != nil {
		return err
	}

	logger.Info("Launching browser", "engine", cfg.Engine, "headless", cfg.Browser.Headless)
	session, err := browser.New(cfg.Engine, cfg.Browser, logger)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.Close()

	pipeline := scrape.NewPipeline(session, adapter, logger.With("source", adapter.Name()))
	res, err := pipeline.Run(ctx, cfg.Search)
	if err != nil {
		return err
	}

	deduped := res.Records.Dedup()
	logger.Info("Deduplicated", "scraped", res.Records.Len(), "unique", deduped.Len())

	if err := write(cfg, deduped, logger); err != nil {
		return err
	}

	if repo != nil {
		r := model.NewRun(cfg.Search.City, cfg.Search.State, cfg.Search.Query, cfg.Search.Pages)
		if err := repo.SaveRun(ctx, r, deduped); err != nil {
			logger.Error("Save run failed", "err", err)
		} else {
			logger.Info("Run saved", "run", r.ID, "db", cfg.DBPath)
		}
	}
	return nil
}

func exportStored(ctx context.Context, repo *storage.DuckDBRepo, cfg config.Config, logger *slog.Logger) error {
	id := cfg.RunID
	if id == uuid.Nil {
		latest, err := repo.LatestRunID(ctx)
		if err != nil {
			return err
		}
		id = latest
	}

	r, records, err := repo.LoadRun(ctx, id)
	if err != nil {
		return err
	}
	logger.Info("Export-only mode, re-exporting stored run",
		"run", r.ID, "started_at", r.StartedAt, "city", r.City, "state", r.State, "search", r.Query)
	return write(cfg, records, logger)
}

// write splits the deduplicated records, saves the archive and prints a preview.
func write(cfg config.Config, deduped model.ResultSet, logger *slog.Logger) error {
	split := deduped.Split()
	if err := export.SaveArchive(cfg.OutPath, split); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("Export successful",
		"path", cfg.OutPath,
		"with_email", len(split.WithEmail),
		"without_email", len(split.WithoutEmail))

	export.Preview(os.Stdout, deduped, cfg.Preview)
	return nil
}
