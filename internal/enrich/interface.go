package enrich

import (
	"context"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
)

// Enricher fills in fields a results page does not carry.
type Enricher interface {
	Enrich(ctx context.Context, r *model.Record) error
}
