package craftboard

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// cbConfig holds mutable state during Craftboard construction.
type cbConfig struct {
	page            Page
	pollingInterval time.Duration
	port            int
	apiBaseURL      string
	userAgent       string
	httpClient      *http.Client
	logger          *slog.Logger
	pollCallbacks   []func(PollResult)
}

// Option is a function that configures a [Craftboard] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*cbConfig) error

// WithTitle sets the display name shown as the page heading and browser tab.
//
// If not specified, defaults to "Minecraft Server".
func WithTitle(title string) Option {
	return func(cfg *cbConfig) error {
		cfg.page.Title = title
		return nil
	}
}

// WithTagline sets the line shown under the title.
func WithTagline(tagline string) Option {
	return func(cfg *cbConfig) error {
		cfg.page.Tagline = tagline
		return nil
	}
}

// WithBackground sets an image URL used as the page background.
//
// Example:
//
//	cb, err := craftboard.New("play.example.net",
//	    craftboard.WithBackground("https://example.net/spawn.png"),
//	)
func WithBackground(url string) Option {
	return func(cfg *cbConfig) error {
		cfg.page.Background = url
		return nil
	}
}

// WithFeatures replaces the features shown on the page.
//
// Calling WithFeatures with no arguments hides the features card. Every
// feature needs a title.
func WithFeatures(features ...Feature) Option {
	return func(cfg *cbConfig) error {
		for _, f := range features {
			if f.Title == "" {
				return errors.New("feature title cannot be empty")
			}
		}
		cfg.page.Features = append([]Feature{}, features...)
		return nil
	}
}

// WithPollingInterval sets how often the server is polled.
//
// Defaults to 60 seconds if not specified. Keep in mind that the public
// status API caches results for a few minutes and rate-limits clients.
//
// Returns an error if the duration is below one second.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *cbConfig) error {
		if d < time.Second {
			return errors.New("polling interval must be at least 1s")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the status page.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *cbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithAPIBaseURL points the poller at a different status API. The server
// address is appended to url, so it should end with a slash.
//
// Useful for self-hosted mirrors and local testing. Returns an error if url
// is empty; the scheme is validated by [New].
func WithAPIBaseURL(url string) Option {
	return func(cfg *cbConfig) error {
		if url == "" {
			return errors.New("api base URL cannot be empty")
		}
		cfg.apiBaseURL = url
		return nil
	}
}

// WithUserAgent sets the User-Agent sent to the status API.
func WithUserAgent(ua string) Option {
	return func(cfg *cbConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithHTTPClient sets the HTTP client used to reach the status API.
//
// The default client sets no request timeout. Returns an error if hc is nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *cbConfig) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = hc
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Craftboard instance.
//
// If not specified, [slog.Default] is used. Returns an error if the logger
// is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *cbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithPollCallback registers a function to be called on every poll completion.
//
// The callback receives a [PollResult] with the snapshot or the failure
// reason. Callbacks run after the dashboard state has been updated.
// Multiple callbacks execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. They run on the polling
// goroutine, and [Craftboard.Start] does not return until they finish.
// Panics within callbacks are recovered and logged.
//
// Example:
//
//	cb, err := craftboard.New("play.example.net",
//	    craftboard.WithPollCallback(func(r craftboard.PollResult) {
//	        if r.Err == nil && !r.Snapshot.Online {
//	            log.Printf("ALERT: %s is offline", r.Address)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithPollCallback(fn func(PollResult)) Option {
	return func(cfg *cbConfig) error {
		if fn == nil {
			return nil
		}
		cfg.pollCallbacks = append(cfg.pollCallbacks, fn)
		return nil
	}
}
