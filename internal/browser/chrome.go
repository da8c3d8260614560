package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
)

// ChromeSession drives one Chrome tab through chromedp for the whole run.
type ChromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	logger      *slog.Logger
	closed      bool
}

// NewChromeSession launches Chrome and opens the tab every navigation uses.
func NewChromeSession(opts Options, logger *slog.Logger) (*ChromeSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.userAgent()),
	)
	if opts.ChromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser, so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	logger.Info("Chrome launched", "headless", opts.Headless)
	return &ChromeSession{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		logger:      logger,
	}, nil
}

func (s *ChromeSession) Name() string { return EngineChrome }

func (s *ChromeSession) Open(ctx context.Context, url string, wait Wait) (string, error) {
	// Cancelling a child of the tab context aborts the action without closing the tab.
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}

	if err := s.settle(runCtx, url, wait); err != nil {
		return "", err
	}

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return html, nil
}

func (s *ChromeSession) settle(ctx context.Context, url string, wait Wait) error {
	if wait.Marker == "" {
		if err := sleep(ctx, wait.Max); err != nil {
			return err
		}
	} else {
		waitCtx, cancel := context.WithTimeout(ctx, wait.Max)
		err := chromedp.Run(waitCtx, chromedp.WaitReady(wait.Marker, chromedp.ByQuery))
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Debug("Marker not seen, continuing", "url", url, "marker", wait.Marker)
		}
	}

	if !wait.Scroll {
		return nil
	}
	if err := chromedp.Run(ctx, chromedp.Evaluate(scrollScript, nil)); err != nil {
		return fmt.Errorf("scroll %s: %w", url, err)
	}
	return sleep(ctx, wait.Settle)
}

// Close shuts the tab and the browser process. Later calls are no-ops.
func (s *ChromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancelTab()
	s.cancelAlloc()
	s.logger.Info("Chrome closed")
	return nil
}
