package bluesky

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/lysyi3m/deal-comb/app/deal"
)

// Client reads author feeds from the public AppView JSON API.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewClient(opts Options, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(cmp.Or(opts.BaseURL, DefaultAppViewURL))
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		client:  client,
		limiter: opts.Limiter,
	}
}

// Fetch makes a single request for at most limit posts. There is no
// pagination and no retry.
func (c *Client) Fetch(ctx context.Context, actor string, limit int) ([]deal.Post, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"actor": actor,
			"limit": strconv.Itoa(limit),
		}).
		Get(authorFeedPath)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("request failed: %w", err)}
	}

	if !isSuccess(resp) {
		slog.Debug("Upstream returned non-success status", "actor", actor, "status", resp.StatusCode())
		return nil, &FetchError{Status: resp.StatusCode()}
	}

	var body authorFeedResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to decode author feed: %w", err)}
	}

	posts := make([]deal.Post, 0, len(body.Feed))
	for _, entry := range body.Feed {
		posts = append(posts, entry.Post.toPost())
	}

	slog.Debug("Author feed fetched", "actor", actor, "posts", len(posts), "duration", resp.Time())

	return posts, nil
}

func isSuccess(resp *resty.Response) bool {
	return resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return &FetchError{Err: fmt.Errorf("rate limiter: %w", err)}
	}
	return nil
}
