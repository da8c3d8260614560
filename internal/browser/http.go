package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gocolly/colly/v2"
)

// HTTPSession fetches raw HTML with colly. Nothing is rendered, so waits are
// ignored; it suits static mirrors and tests, not the live CAPTCHA flow.
type HTTPSession struct {
	c      *colly.Collector
	logger *slog.Logger
}

func NewHTTPSession(opts Options, logger *slog.Logger) *HTTPSession {
	c := colly.NewCollector(
		colly.UserAgent(opts.userAgent()),
		colly.AllowURLRevisit(),
	)
	return &HTTPSession{c: c, logger: logger}
}

func (s *HTTPSession) Name() string { return EngineHTTP }

func (s *HTTPSession) Open(ctx context.Context, url string, _ Wait) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// A clone shares the transport but not the callbacks of earlier visits.
	c := s.c.Clone()
	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("visit %s: %w", url, err)
	}
	c.Wait()

	s.logger.Debug("Fetched", "url", url, "bytes", len(body))
	return string(body), nil
}

func (s *HTTPSession) Close() error { return nil }
