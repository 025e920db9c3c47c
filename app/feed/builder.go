package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/deal-comb/app/deal"
)

// Source fetches raw posts for an actor. Implementations make exactly one
// upstream request per call.
type Source interface {
	Fetch(ctx context.Context, actor string, limit int) ([]deal.Post, error)
}

// Builder runs the deal pipeline for a feed config. It holds no mutable
// state and serves concurrent requests.
type Builder struct {
	sources map[string]Source
}

func NewBuilder(sources map[string]Source) *Builder {
	return &Builder{sources: sources}
}

// Run returns the feed's deals, newest first. The slice is never nil.
// Upstream failures are returned wrapped and unmodified.
func (b *Builder) Run(ctx context.Context, feedConfig *Config) ([]deal.Deal, error) {
	source, ok := b.sources[feedConfig.Source]
	if !ok {
		return nil, fmt.Errorf("unknown source %q for feed %s", feedConfig.Source, feedConfig.Name)
	}

	if feedConfig.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(feedConfig.Settings.Timeout)*time.Second)
		defer cancel()
	}

	start := time.Now()
	posts, err := source.Fetch(ctx, feedConfig.Actor, feedConfig.Settings.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedConfig.Name, err)
	}

	deals := deal.NewNormalizer(feedConfig.Classifier()).RunAll(posts)
	deal.SortByRecency(deals)

	slog.Debug("Feed built", "feed", feedConfig.Name, "source", feedConfig.Source, "deals", len(deals), "duration", time.Since(start).String())

	return deals, nil
}
