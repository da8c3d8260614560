package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/pradumnakadam07/manta-scraper/internal/storage"
)

func main() {
	runID := flag.String("run", "", "Run id to delete (required)")
	dbPath := flag.String("db", "", "Path to an existing DuckDB file (required)")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	if *runID == "" {
		fmt.Fprintf(os.Stderr, "Error: -run is required\n")
		os.Exit(1)
	}
	if *dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -db is required\n")
		os.Exit(1)
	}
	id, err := uuid.Parse(*runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run id: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	repo, err := storage.OpenDuckDBRepo(*dbPath, logger)
	if err != nil {
		logger.Error("DB connection failed", "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	r, records, err := repo.LoadRun(ctx, id)
	if err != nil {
		logger.Error("Lookup failed", "run", id, "err", err)
		os.Exit(1)
	}

	if !*yes {
		fmt.Printf("\nDelete run %s (%s, %s %s, %q) with %d records?\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.City, r.State, r.Query, records.Len())
		fmt.Print("Are you sure? (yes/no): ")

		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Cancelled.")
			return
		}
	}

	rowsDeleted, err := repo.DeleteRun(ctx, id)
	if errors.Is(err, storage.ErrRunNotFound) {
		logger.Warn("Run already gone", "run", id)
		return
	}
	if err != nil {
		logger.Error("Delete failed", "run", id, "err", err)
		os.Exit(1)
	}

	logger.Info("Deleted successfully", "run", id, "rows_deleted", rowsDeleted)
}
