package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodSession drives a single stealth page through go-rod.
type RodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	logger   *slog.Logger
	closed   bool
}

func NewRodSession(opts Options, logger *slog.Logger) (*RodSession, error) {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(true)
	if opts.ChromeBin != "" {
		l = l.Bin(opts.ChromeBin)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	// stealth.Page injects the evasion script before every document.
	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.userAgent()}); err != nil {
		logger.Warn("Could not override user agent", "err", err)
	}

	logger.Info("Rod browser launched", "headless", opts.Headless, "control_url", controlURL)
	return &RodSession{launcher: l, browser: browser, page: page, logger: logger}, nil
}

func (s *RodSession) Name() string { return EngineRod }

func (s *RodSession) Open(ctx context.Context, url string, wait Wait) (string, error) {
	p := s.page.Context(ctx)

	if err := p.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("load %s: %w", url, err)
	}

	if wait.Marker == "" {
		if err := sleep(ctx, wait.Max); err != nil {
			return "", err
		}
	} else if _, err := p.Timeout(wait.Max).Element(wait.Marker); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Debug("Marker not seen, continuing", "url", url, "marker", wait.Marker)
	}

	if wait.Scroll {
		if _, err := p.Eval(`() => ` + scrollScript); err != nil {
			return "", fmt.Errorf("scroll %s: %w", url, err)
		}
		if err := sleep(ctx, wait.Settle); err != nil {
			return "", err
		}
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return html, nil
}

func (s *RodSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.browser.Close()
	s.launcher.Cleanup()
	s.logger.Info("Rod browser closed")
	return err
}
