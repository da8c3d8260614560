package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pradumnakadam07/manta-scraper/internal/browser"
	"github.com/pradumnakadam07/manta-scraper/internal/enrich"
	"github.com/pradumnakadam07/manta-scraper/internal/model"
	"github.com/pradumnakadam07/manta-scraper/internal/source"
)

type Stats struct {
	Pages, EmptyPages, Listings int
	DetailFetched, DetailFailed int
	EmailsFound                 int
}

type Result struct {
	Records model.ResultSet
	Stats   Stats
}

// Pipeline walks result pages in order on one session and resolves each
// listing's email before moving on. Nothing runs concurrently.
type Pipeline struct {
	session  browser.Session
	adapter  source.Adapter
	resolver *enrich.EmailResolver
	logger   *slog.Logger

	startWait   browser.Wait
	resultsWait browser.Wait
}

func NewPipeline(session browser.Session, adapter source.Adapter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		session:     session,
		adapter:     adapter,
		resolver:    enrich.NewEmailResolver(session, adapter, logger.With("component", "email")),
		logger:      logger,
		startWait:   browser.StartWait,
		resultsWait: browser.ResultsWait,
	}
}

// Run scrapes s.Pages result pages. A results-page failure aborts the run;
// detail-page failures only cost that listing its email.
func (p *Pipeline) Run(ctx context.Context, s source.Search) (Result, error) {
	var res Result

	start := p.adapter.StartURL(s)
	p.logger.Info("Opening search, solve the CAPTCHA if one is shown", "url", start, "wait", p.startWait.Worst())
	if _, err := p.session.Open(ctx, start, p.startWait); err != nil {
		return res, fmt.Errorf("open start page: %w", err)
	}

	for page := 1; page <= s.Pages; page++ {
		p.logger.Info("Scraping page", "page", page, "total", s.Pages)

		records, err := p.scrapePage(ctx, p.adapter.PageURL(s, page))
		if err != nil {
			return res, fmt.Errorf("page %d: %w", page, err)
		}
		res.Stats.Pages++

		if len(records) == 0 {
			res.Stats.EmptyPages++
			p.logger.Warn("No listings found on page", "page", page)
			continue
		}
		res.Stats.Listings += len(records)

		for i := range records {
			if err := p.resolver.Enrich(ctx, &records[i]); err != nil {
				return res, err
			}
			res.Records.Append(records[i])
		}
	}

	res.Stats.DetailFetched = p.resolver.Fetched
	res.Stats.DetailFailed = p.resolver.Failed
	res.Stats.EmailsFound = p.resolver.Found

	p.logger.Info("Scrape complete",
		"pages", res.Stats.Pages,
		"empty_pages", res.Stats.EmptyPages,
		"listings", res.Stats.Listings,
		"detail_fetched", res.Stats.DetailFetched,
		"detail_failed", res.Stats.DetailFailed,
		"emails", res.Stats.EmailsFound)
	return res, nil
}

func (p *Pipeline) scrapePage(ctx context.Context, url string) ([]model.Record, error) {
	html, err := p.session.Open(ctx, url, p.resultsWait)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return source.ExtractListings(p.adapter, doc), nil
}
