package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pradumnakadam07/manta-scraper/internal/browser"
	"github.com/pradumnakadam07/manta-scraper/internal/model"
	"github.com/pradumnakadam07/manta-scraper/internal/source"
)

// EmailResolver recovers a listing's email from its detail page.
// Fetch failures are logged and leave the email empty.
type EmailResolver struct {
	session browser.Session
	adapter source.Adapter
	wait    browser.Wait
	logger  *slog.Logger

	Fetched int
	Failed  int
	Found   int
}

func NewEmailResolver(session browser.Session, adapter source.Adapter, logger *slog.Logger) *EmailResolver {
	return &EmailResolver{
		session: session,
		adapter: adapter,
		wait:    browser.DetailWait,
		logger:  logger,
	}
}

// Resolve returns "" for an empty URL without fetching anything.
func (e *EmailResolver) Resolve(ctx context.Context, detailURL string) (string, error) {
	if detailURL == "" {
		return "", nil
	}

	e.Fetched++
	email, err := e.fetch(ctx, detailURL)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		e.Failed++
		e.logger.Error("Could not fetch email", "url", detailURL, "err", err)
		return "", nil
	}

	if email != "" {
		e.Found++
		e.logger.Debug("Email found", "url", detailURL, "email", email)
	}
	return email, nil
}

func (e *EmailResolver) fetch(ctx context.Context, detailURL string) (string, error) {
	html, err := e.session.Open(ctx, detailURL, e.wait)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse detail page: %w", err)
	}
	return e.adapter.Email(doc), nil
}

// Enrich sets r.Email. The only error it returns is a cancelled context.
func (e *EmailResolver) Enrich(ctx context.Context, r *model.Record) error {
	email, err := e.Resolve(ctx, r.DetailURL)
	if err != nil {
		return err
	}
	r.Email = email
	return nil
}
