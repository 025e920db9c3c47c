package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port         string `validate:"required,numeric"`
	BaseUrl      string `validate:"omitempty,url"`
	APIAccessKey string

	// Upstream configuration
	Actor           string        `validate:"required"`
	Limit           int           `validate:"gte=1,lte=100"`
	Source          string        `validate:"oneof=appview rss"`
	AppViewURL      string        `validate:"required,url"`
	WebURL          string        `validate:"required,url"`
	UpstreamTimeout time.Duration `validate:"gte=0"`
	RateLimit       float64       `validate:"gte=0"`
	RateBurst       int           `validate:"gte=1"`

	// Storage configuration
	FeedsDir string
	DBPath   string `validate:"required"`

	// Background tasks
	WorkerCount       int           `validate:"gte=1"`
	SchedulerInterval time.Duration `validate:"gt=0"`
	SeenRetention     time.Duration `validate:"gte=0"`

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
