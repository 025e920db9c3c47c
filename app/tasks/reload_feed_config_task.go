package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/deal-comb/app/feed"
)

// ConfigLoader re-reads one feed config from disk into the cache.
type ConfigLoader interface {
	LoadConfig(feedName string) (*feed.Config, error)
}

var _ ConfigLoader = (*feed.ConfigCache)(nil)

type ReloadFeedConfigTask struct {
	Task
	loader ConfigLoader
}

func NewReloadFeedConfigTask(feedName string, loader ConfigLoader) *ReloadFeedConfigTask {
	return &ReloadFeedConfigTask{
		Task:   NewTask(TaskTypeReloadFeedConfig, feedName),
		loader: loader,
	}
}

func (t *ReloadFeedConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	feedConfig, err := t.loader.LoadConfig(t.Target)
	if err != nil {
		return fmt.Errorf("failed to reload feed config: %w", err)
	}

	slog.Info("Task completed",
		"type", "ReloadFeedConfig",
		"feed", t.Target,
		"enabled", feedConfig.Settings.Enabled,
		"duration", t.GetDuration())

	return nil
}
