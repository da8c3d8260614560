package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrNoDatabase  = errors.New("database file does not exist")
)

type Repository interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.Run, records model.ResultSet) error
	LatestRunID(ctx context.Context) (uuid.UUID, error)
	LoadRun(ctx context.Context, id uuid.UUID) (model.Run, model.ResultSet, error)
	SearchRecords(ctx context.Context, f Filter) (model.ResultSet, error)
	DeleteRun(ctx context.Context, id uuid.UUID) (int64, error)
	Close() error
}

// Filter narrows SearchRecords. Zero values match everything.
type Filter struct {
	Name      string // Case-insensitive substring
	RunID     uuid.UUID
	EmailOnly bool
}
