package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/pradumnakadam07/manta-scraper/internal/export"
	"github.com/pradumnakadam07/manta-scraper/internal/storage"
)

func main() {
	dbPath := flag.String("db", "", "Path to an existing DuckDB file (required)")
	name := flag.String("name", "", "Search by name (case-insensitive contains)")
	runID := flag.String("run", "", "Only records from this run id")
	emailOnly := flag.Bool("email-only", false, "Only records with an email")
	outPath := flag.String("out", "out/search_results.csv", "Output CSV path")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -db is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	filter := storage.Filter{Name: *name, EmailOnly: *emailOnly}
	if *runID != "" {
		id, err := uuid.Parse(*runID)
		if err != nil {
			logger.Error("Invalid run id", "run", *runID, "error", err)
			os.Exit(1)
		}
		filter.RunID = id
	}

	repo, err := storage.OpenDuckDBRepo(*dbPath, logger)
	if err != nil {
		logger.Error("Failed to open DB", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	records, err := repo.SearchRecords(ctx, filter)
	if err != nil {
		logger.Error("Search failed", "error", err)
		os.Exit(1)
	}

	if err := export.SaveCSV(*outPath, records); err != nil {
		logger.Error("Write failed", "output", *outPath, "error", err)
		os.Exit(1)
	}

	logger.Info("Search complete", "output", *outPath, "records", records.Len())
}
