package api

import (
	"context"

	"github.com/lysyi3m/deal-comb/app/database"
	"github.com/lysyi3m/deal-comb/app/deal"
	"github.com/lysyi3m/deal-comb/app/feed"
	"github.com/lysyi3m/deal-comb/app/tasks"
)

type BuilderInterface interface {
	Run(ctx context.Context, feedConfig *feed.Config) ([]deal.Deal, error)
}

type GeneratorInterface interface {
	Run(feedConfig *feed.Config, deals []deal.Deal) (string, error)
}

var (
	_ BuilderInterface   = (*feed.Builder)(nil)
	_ GeneratorInterface = (*feed.Generator)(nil)
)

type Handler struct {
	defaultFeed *feed.Config
	configCache *feed.ConfigCache
	builder     BuilderInterface
	generator   GeneratorInterface
	seenRepo    database.SeenRepository
	scheduler   tasks.TaskSchedulerInterface
	version     string
}

type markSeenRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=500,dive,required,max=256"`
}
