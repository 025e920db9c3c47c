package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://deals.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Upstream configuration
	Actor           string  `long:"actor" env:"BSKY_ACTOR" default:"did:plc:knj5sw5al3sukl6vhkpi7637" description:"Account whose posts feed the /deals endpoint"`
	Limit           int     `long:"limit" env:"BSKY_LIMIT" default:"50" description:"Number of posts requested per poll (1-100)"`
	Source          string  `long:"source" env:"BSKY_SOURCE" default:"appview" choice:"appview" choice:"rss" description:"Upstream used by the /deals endpoint"`
	AppViewURL      string  `long:"appview-url" env:"BSKY_APPVIEW_URL" default:"https://public.api.bsky.app" description:"Base URL of the public AppView API"`
	WebURL          string  `long:"web-url" env:"BSKY_WEB_URL" default:"https://bsky.app" description:"Base URL of the web app serving profile RSS"`
	UpstreamTimeout int     `long:"upstream-timeout" env:"UPSTREAM_TIMEOUT" default:"0" description:"Upstream request timeout in seconds (0 leaves it to the transport)"`
	RateLimit       float64 `long:"rate-limit" env:"UPSTREAM_RATE_LIMIT" default:"0" description:"Maximum upstream requests per second (0 disables limiting)"`
	RateBurst       int     `long:"rate-burst" env:"UPSTREAM_RATE_BURST" default:"1" description:"Upstream request burst size"`

	// Storage configuration
	FeedsDir string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing feed configuration files"`
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./deal-comb.db" description:"Path to the sqlite database holding seen deal ids"`

	// Background tasks
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Scheduler interval in seconds"`
	SeenRetention     int `long:"seen-retention" env:"SEEN_RETENTION" default:"168" description:"Hours to keep seen deal ids (0 keeps them forever)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Deal-Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses the process arguments and environment. It returns nil, nil
// when help was requested.
func Load() (*Cfg, error) {
	return Parse(nil)
}

// Parse is Load with explicit arguments; nil means os.Args[1:].
func Parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		APIAccessKey:      raw.APIAccessKey,
		Actor:             raw.Actor,
		Limit:             raw.Limit,
		Source:            raw.Source,
		AppViewURL:        raw.AppViewURL,
		WebURL:            raw.WebURL,
		UpstreamTimeout:   time.Duration(raw.UpstreamTimeout) * time.Second,
		RateLimit:         raw.RateLimit,
		RateBurst:         raw.RateBurst,
		FeedsDir:          raw.FeedsDir,
		DBPath:            raw.DBPath,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: time.Duration(raw.SchedulerInterval) * time.Second,
		SeenRetention:     time.Duration(raw.SeenRetention) * time.Hour,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
