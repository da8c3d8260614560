package enrich_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradumnakadam07/manta-scraper/internal/browser"
	"github.com/pradumnakadam07/manta-scraper/internal/enrich"
	"github.com/pradumnakadam07/manta-scraper/internal/model"
	"github.com/pradumnakadam07/manta-scraper/internal/source"
)

type fakeSession struct {
	pages  map[string]string
	errs   map[string]error
	visits []string
	waits  []browser.Wait
}

func (f *fakeSession) Name() string { return "fake" }

func (f *fakeSession) Open(_ context.Context, url string, wait browser.Wait) (string, error) {
	f.visits = append(f.visits, url)
	f.waits = append(f.waits, wait)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

func (f *fakeSession) Close() error { return nil }

func newResolver(t *testing.T, s browser.Session) (*enrich.EmailResolver, *bytes.Buffer) {
	t.Helper()
	m, err := source.NewManta("")
	require.NoError(t, err)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return enrich.NewEmailResolver(s, m, logger), &buf
}

func TestResolve_EmptyURLSkipsFetch(t *testing.T) {
	t.Parallel()

	s := &fakeSession{}
	r, _ := newResolver(t, s)

	email, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, email)
	assert.Empty(t, s.visits)
	assert.Zero(t, r.Fetched)
}

func TestResolve_FindsMailto(t *testing.T) {
	t.Parallel()

	s := &fakeSession{pages: map[string]string{
		"https://www.manta.com/c/jane": `<html><body><a href="mailto:Jane@Example.com ">Email us</a></body></html>`,
	}}
	r, _ := newResolver(t, s)

	email, err := r.Resolve(context.Background(), "https://www.manta.com/c/jane")
	require.NoError(t, err)
	assert.Equal(t, "Jane@Example.com", email)
	assert.Equal(t, []browser.Wait{browser.DetailWait}, s.waits)
	assert.Equal(t, 1, r.Fetched)
	assert.Equal(t, 1, r.Found)
}

func TestResolve_NoMailto(t *testing.T) {
	t.Parallel()

	s := &fakeSession{pages: map[string]string{"u": `<a href="/x">x</a>`}}
	r, _ := newResolver(t, s)

	email, err := r.Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.Empty(t, email)
	assert.Zero(t, r.Found)
}

func TestResolve_FetchFailureIsLogged(t *testing.T) {
	t.Parallel()

	s := &fakeSession{errs: map[string]error{"https://www.manta.com/c/down": errors.New("net::ERR_TIMED_OUT")}}
	r, buf := newResolver(t, s)

	email, err := r.Resolve(context.Background(), "https://www.manta.com/c/down")
	require.NoError(t, err)
	assert.Empty(t, email)
	assert.Equal(t, 1, r.Failed)
	assert.Contains(t, buf.String(), "Could not fetch email")
	assert.Contains(t, buf.String(), "ERR_TIMED_OUT")
}

func TestResolve_CancelledContext(t *testing.T) {
	t.Parallel()

	s := &fakeSession{errs: map[string]error{"u": context.Canceled}}
	r, _ := newResolver(t, s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "u")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.Failed)
}

func TestEnrich_SetsEmail(t *testing.T) {
	t.Parallel()

	s := &fakeSession{pages: map[string]string{"d": `<a href="mailto:x@y.z">x</a>`}}
	r, _ := newResolver(t, s)

	var e enrich.Enricher = r
	rec := model.Record{Name: "X", DetailURL: "d"}
	require.NoError(t, e.Enrich(context.Background(), &rec))
	assert.Equal(t, "x@y.z", rec.Email)
}
