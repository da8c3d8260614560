package browser

import (
	"context"
	"time"
)

// Session fetches rendered pages. A session is used by one caller at a time;
// only one navigation is ever in flight.
type Session interface {
	Name() string
	Open(ctx context.Context, url string, wait Wait) (string, error)
	Close() error
}

// Wait bounds how long a session lets a page render after navigation.
// With a Marker the session polls for it for at most Max and then carries on
// whether or not it appeared; without one it waits the full Max.
type Wait struct {
	Marker string
	Max    time.Duration
	Scroll bool          // Scroll to the bottom once the page is ready
	Settle time.Duration // Wait after scrolling
}

// Worst returns the longest time the wait can take.
func (w Wait) Worst() time.Duration {
	d := w.Max
	if w.Scroll {
		d += w.Settle
	}
	return d
}

const (
	ListingMarker = `div[class*="text-gray-800"]`
	MailtoMarker  = `a[href^="mailto:"]`
)

var (
	// StartWait leaves room for an operator to solve a CAPTCHA.
	StartWait   = Wait{Max: 15 * time.Second}
	ResultsWait = Wait{Marker: ListingMarker, Max: 3 * time.Second, Scroll: true, Settle: 2 * time.Second}
	DetailWait  = Wait{Marker: MailtoMarker, Max: 2 * time.Second}
)

// Options are shared by all engines; engines ignore what they cannot use.
type Options struct {
	Headless  bool
	ChromeBin string
	UserAgent string
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

func (o Options) userAgent() string {
	if o.UserAgent != "" {
		return o.UserAgent
	}
	return defaultUserAgent
}

const scrollScript = `window.scrollTo(0, document.body.scrollHeight)`

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
