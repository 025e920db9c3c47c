package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/deal-comb/app/database"
)

type PruneSeenTask struct {
	Task
	Retention time.Duration
	seenRepo  database.SeenRepository
}

func NewPruneSeenTask(retention time.Duration, seenRepo database.SeenRepository) *PruneSeenTask {
	return &PruneSeenTask{
		Task:      NewTask(TaskTypePruneSeen, "seen_deals"),
		Retention: retention,
		seenRepo:  seenRepo,
	}
}

func (t *PruneSeenTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().Add(-t.Retention)
	deleted, err := t.seenRepo.Prune(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune seen deals: %w", err)
	}

	slog.Info("Task completed",
		"type", "PruneSeen",
		"cutoff", cutoff.Format(time.RFC3339),
		"deleted", deleted,
		"duration", t.GetDuration())

	return nil
}
