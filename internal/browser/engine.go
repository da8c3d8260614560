package browser

import (
	"fmt"
	"log/slog"
)

const (
	EngineChrome = "chromedp"
	EngineRod    = "rod"
	EngineHTTP   = "http"
)

// Engines lists the accepted -engine values.
var Engines = []string{EngineChrome, EngineRod, EngineHTTP}

// New starts a session on the named engine.
func New(engine string, opts Options, logger *slog.Logger) (Session, error) {
	logger = logger.With("engine", engine)
	switch engine {
	case EngineChrome:
		return NewChromeSession(opts, logger)
	case EngineRod:
		return NewRodSession(opts, logger)
	case EngineHTTP:
		return NewHTTPSession(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}
