package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
)

const (
	WithEmailsFile    = "data_with_emails.csv"
	WithoutEmailsFile = "data_without_emails.csv"
	DefaultArchive    = "manta_scraped_data.zip"
)

// WriteArchive zips both halves of the split as two CSV files.
func WriteArchive(w io.Writer, split model.Split) error {
	zw := zip.NewWriter(w)
	entries := []struct {
		name    string
		records model.ResultSet
	}{
		{WithEmailsFile, split.WithEmail},
		{WithoutEmailsFile, split.WithoutEmail},
	}

	now := time.Now()
	for _, e := range entries {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return fmt.Errorf("create %s: %w", e.name, err)
		}
		if err := WriteCSV(f, e.records); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
	}
	return zw.Close()
}

// SaveArchive writes the archive to path through a temp file in the same
// directory, so a failed export never leaves a truncated zip behind.
func SaveArchive(path string, split model.Split) error {
	return saveFile(path, ".export-*.zip", func(w io.Writer) error {
		return WriteArchive(w, split)
	})
}

// SaveCSV writes records as a single CSV file at path.
func SaveCSV(path string, records model.ResultSet) error {
	return saveFile(path, ".export-*.csv", func(w io.Writer) error {
		return WriteCSV(w, records)
	})
}

func saveFile(path, pattern string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
