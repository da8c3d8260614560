package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pradumnakadam07/manta-scraper/internal/browser"
	"github.com/pradumnakadam07/manta-scraper/internal/export"
	"github.com/pradumnakadam07/manta-scraper/internal/source"
)

var (
	ErrInvalidPages   = fmt.Errorf("pages must be between %d and %d", source.MinPages, source.MaxPages)
	ErrUnknownEngine  = fmt.Errorf("engine must be one of %s", strings.Join(browser.Engines, ", "))
	ErrNoDatabase     = errors.New("-export-only needs -db")
	ErrRunNeedsExport = errors.New("-run needs -export-only")
)

type Config struct {
	Search     source.Search
	BaseURL    string
	Engine     string
	Browser    browser.Options
	OutPath    string
	DBPath     string
	ExportOnly bool
	RunID      uuid.UUID
	Preview    int
	Debug      bool
}

// LoadDotEnv reads a .env file into the process environment. A missing file
// is not an error; variables already set win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Parse builds a Config from defaults, then getenv, then args.
func Parse(name string, args []string, getenv func(string) string, output io.Writer) (Config, error) {
	var cfg Config
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	pagesDefault := 1
	if v := env("MANTA_PAGES", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("MANTA_PAGES: %w", err)
		}
		pagesDefault = n
	}

	fsFlags := flag.NewFlagSet(name, flag.ContinueOnError)
	fsFlags.SetOutput(output)
	fsFlags.StringVar(&cfg.Search.City, "city", env("MANTA_CITY", "Dallas"), "City to search")
	fsFlags.StringVar(&cfg.Search.State, "state", env("MANTA_STATE", "TX"), "State to search")
	fsFlags.StringVar(&cfg.Search.Query, "search", env("MANTA_SEARCH", "Plumber"), "Service to search for")
	fsFlags.IntVar(&cfg.Search.Pages, "pages", pagesDefault, "Number of result pages to scrape (1-50)")
	fsFlags.StringVar(&cfg.BaseURL, "base-url", source.DefaultMantaURL, "Site origin")
	fsFlags.StringVar(&cfg.Engine, "engine", browser.EngineChrome, "Fetch engine: "+strings.Join(browser.Engines, ", "))
	fsFlags.StringVar(&cfg.Browser.ChromeBin, "chrome", env("CHROME_BIN", ""), "Chrome/Chromium binary (default: auto-detect)")
	fsFlags.BoolVar(&cfg.Browser.Headless, "headless", true, "Run the browser headless")
	fsFlags.StringVar(&cfg.OutPath, "out", "out/"+export.DefaultArchive, "Output zip path")
	fsFlags.StringVar(&cfg.DBPath, "db", env("MANTA_DB", ""), "DuckDB file to record runs in (empty disables)")
	fsFlags.BoolVar(&cfg.ExportOnly, "export-only", false, "Re-export a stored run, skip scraping")
	runID := fsFlags.String("run", "", "Run id for -export-only (default: latest)")
	fsFlags.IntVar(&cfg.Preview, "preview", export.DefaultPreviewRows, "Rows to preview after export (0 disables)")
	fsFlags.BoolVar(&cfg.Debug, "debug", false, "Enable debug logs")

	if err := fsFlags.Parse(args); err != nil {
		return cfg, err
	}

	if *runID != "" {
		id, err := uuid.Parse(*runID)
		if err != nil {
			return cfg, fmt.Errorf("-run: %w", err)
		}
		cfg.RunID = id
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Search.Pages < source.MinPages || c.Search.Pages > source.MaxPages {
		return fmt.Errorf("%w, got %d", ErrInvalidPages, c.Search.Pages)
	}
	if !slices.Contains(browser.Engines, c.Engine) {
		return fmt.Errorf("%w, got %q", ErrUnknownEngine, c.Engine)
	}
	if c.ExportOnly && c.DBPath == "" {
		return ErrNoDatabase
	}
	if c.RunID != uuid.Nil && !c.ExportOnly {
		return ErrRunNeedsExport
	}
	return nil
}
