package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
)

var _ Repository = (*DuckDBRepo)(nil)

type DuckDBRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDuckDBRepo(path string, logger *slog.Logger) (*DuckDBRepo, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	return &DuckDBRepo{db: db, logger: logger}, nil
}

// OpenDuckDBRepo connects to a database file that must already exist, for
// tools that only read or prune earlier runs.
func OpenDuckDBRepo(path string, logger *slog.Logger) (*DuckDBRepo, error) {
	if path == "" {
		return nil, ErrNoDatabase
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDatabase)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return NewDuckDBRepo(path, logger)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP,
		city TEXT,
		state TEXT,
		search TEXT,
		pages INTEGER
	);`,
	`CREATE TABLE IF NOT EXISTS records (
		run_id TEXT,
		seq INTEGER,
		name TEXT,
		address TEXT,
		phone TEXT,
		website TEXT,
		email TEXT,
		detail_url TEXT,
		PRIMARY KEY (run_id, seq)
	);`,
}

func (r *DuckDBRepo) Init(ctx context.Context) error {
	for _, query := range schema {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores the run and its records in one transaction, keeping order.
func (r *DuckDBRepo) SaveRun(ctx context.Context, run model.Run, records model.ResultSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, city, state, search, pages) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.StartedAt, run.City, run.State, run.Query, run.Pages)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, seq, name, address, phone, website, email, detail_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, run.ID.String(), i, rec.Name, rec.Address, rec.Phone, rec.Website, rec.Email, rec.DetailURL); err != nil {
			return fmt.Errorf("insert record %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.Debug("Run saved", "run", run.ID, "records", len(records))
	return nil
}

func (r *DuckDBRepo) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrRunNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(id)
}

func (r *DuckDBRepo) LoadRun(ctx context.Context, id uuid.UUID) (model.Run, model.ResultSet, error) {
	run := model.Run{ID: id}
	err := r.db.QueryRowContext(ctx,
		`SELECT started_at, city, state, search, pages FROM runs WHERE id = ?`, id.String()).
		Scan(&run.StartedAt, &run.City, &run.State, &run.Query, &run.Pages)
	if errors.Is(err, sql.ErrNoRows) {
		return run, nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return run, nil, err
	}

	records, err := r.SearchRecords(ctx, Filter{RunID: id})
	return run, records, err
}

func (r *DuckDBRepo) SearchRecords(ctx context.Context, f Filter) (model.ResultSet, error) {
	var conditions []string
	var args []any

	if f.Name != "" {
		conditions = append(conditions, "lower(r.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Name)+"%")
	}
	if f.RunID != uuid.Nil {
		conditions = append(conditions, "r.run_id = ?")
		args = append(args, f.RunID.String())
	}
	if f.EmailOnly {
		conditions = append(conditions, "trim(r.email) <> ''")
	}

	query := `SELECT r.name, r.address, r.phone, r.website, r.email, r.detail_url
	          FROM records r JOIN runs u ON u.id = r.run_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY u.started_at, r.seq"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out model.ResultSet
	for rows.Next() {
		var rec model.Record
		if err := rows.Scan(&rec.Name, &rec.Address, &rec.Phone, &rec.Website, &rec.Email, &rec.DetailURL); err != nil {
			return nil, err
		}
		out.Append(rec)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its records and reports how many records went.
func (r *DuckDBRepo) DeleteRun(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM records WHERE run_id = ?`, id.String())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id.String())
	if err != nil {
		return 0, err
	}
	if runs, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if runs == 0 {
		return 0, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}

	return n, tx.Commit()
}

func (r *DuckDBRepo) Close() error {
	return r.db.Close()
}
