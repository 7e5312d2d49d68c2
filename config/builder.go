package config

import (
	"log/slog"

	"github.com/jpalmerr/craftboard"
)

// BuildOptions converts parsed configuration into SDK options for
// [craftboard.New]. The server address is passed separately.
//
// logger may be nil, in which case the SDK default applies.
func BuildOptions(cfg *Config, logger *slog.Logger) []craftboard.Option {
	page := BuildPage(cfg)

	opts := []craftboard.Option{
		craftboard.WithTitle(page.Title),
		craftboard.WithTagline(page.Tagline),
		craftboard.WithBackground(page.Background),
		craftboard.WithFeatures(page.Features...),
		craftboard.WithPort(cfg.Port),
		craftboard.WithPollingInterval(cfg.PollInterval.Duration()),
		craftboard.WithAPIBaseURL(cfg.APIBaseURL),
	}

	if cfg.UserAgent != "" {
		opts = append(opts, craftboard.WithUserAgent(cfg.UserAgent))
	}
	if logger != nil {
		opts = append(opts, craftboard.WithLogger(logger))
	}

	return opts
}

// BuildPage extracts the presentation settings, the part of the
// configuration that can change while running.
func BuildPage(cfg *Config) craftboard.Page {
	features := make([]craftboard.Feature, len(cfg.Features))
	for i, f := range cfg.Features {
		features[i] = craftboard.Feature{
			Title:       f.Title,
			Description: f.Description,
			Icon:        f.Icon,
		}
	}

	return craftboard.Page{
		Title:      cfg.Title,
		Tagline:    cfg.Tagline,
		Background: cfg.Background,
		Features:   features,
	}
}
