package feed

import (
	"github.com/lysyi3m/deal-comb/app/deal"
)

const (
	SourceAppView = "appview"
	SourceRSS     = "rss"
)

type Config struct {
	Name      string          `yaml:"-"` // Derived from filename (without .yml extension)
	Title     string          `yaml:"title"`
	Actor     string          `yaml:"actor" validate:"required"`
	Source    string          `yaml:"source" validate:"oneof=appview rss"`
	Settings  ConfigSettings  `yaml:"settings"`
	Platforms []deal.Platform `yaml:"platforms" validate:"dive"`

	classifier *deal.Classifier
}

type ConfigSettings struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit" validate:"gte=1,lte=100"`
	Timeout int  `yaml:"timeout" validate:"gte=0"` // seconds, 0 for none
}

// NewConfig builds a ready-to-use config outside the YAML cache, with the
// default platform table.
func NewConfig(name, actor, source string, limit, timeout int) *Config {
	feedConfig := &Config{
		Name:   name,
		Actor:  actor,
		Source: source,
		Settings: ConfigSettings{
			Enabled: true,
			Limit:   limit,
			Timeout: timeout,
		},
	}
	applyDefaults(feedConfig)
	feedConfig.classifier = deal.NewClassifier(feedConfig.Platforms)
	return feedConfig
}

// Classifier returns the table built at load time.
func (c *Config) Classifier() *deal.Classifier {
	if c.classifier == nil {
		return deal.NewClassifier(c.Platforms)
	}
	return c.classifier
}

func applyDefaults(feedConfig *Config) {
	if feedConfig.Source == "" {
		feedConfig.Source = SourceAppView
	}
	if feedConfig.Settings.Limit == 0 {
		feedConfig.Settings.Limit = 50
	}
	if len(feedConfig.Platforms) == 0 {
		feedConfig.Platforms = deal.DefaultPlatforms
	}
}
