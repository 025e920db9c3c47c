package bluesky

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/lysyi3m/deal-comb/app/deal"
)

// timestampLayout matches the millisecond precision used by post records.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RSSSource reads the public profile RSS feed. Posts carry no facets there,
// so anchors found in the item HTML are turned into link facets.
type RSSSource struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewRSSSource(opts Options, timeout time.Duration) *RSSSource {
	client := resty.New()
	client.SetBaseURL(cmp.Or(opts.BaseURL, DefaultWebURL))
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &RSSSource{
		client:  client,
		limiter: opts.Limiter,
	}
}

func (s *RSSSource) Fetch(ctx context.Context, actor string, limit int) ([]deal.Post, error) {
	if err := wait(ctx, s.limiter); err != nil {
		return nil, err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("actor", actor).
		Get("/profile/{actor}/rss")
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("request failed: %w", err)}
	}

	if !isSuccess(resp) {
		return nil, &FetchError{Status: resp.StatusCode()}
	}

	// gofeed parsers hold per-document state.
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to parse feed: %w", err)}
	}

	items := parsed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	posts := make([]deal.Post, 0, len(items))
	for _, item := range items {
		posts = append(posts, normalizeItem(item))
	}

	slog.Debug("Profile feed fetched", "actor", actor, "posts", len(posts))

	return posts, nil
}

func normalizeItem(item *gofeed.Item) deal.Post {
	text, links := readBody(cmp.Or(item.Description, item.Content, item.Title))

	facets := make([]deal.Facet, 0, len(links))
	for _, link := range links {
		facets = append(facets, deal.Facet{Features: []deal.Feature{{Type: deal.LinkFeatureType, URI: link}}})
	}

	post := deal.Post{
		ID:     cmp.Or(item.GUID, item.Link),
		Text:   text,
		Facets: facets,
	}

	if item.PublishedParsed != nil {
		createdAt := item.PublishedParsed.UTC().Format(timestampLayout)
		post.CreatedAt = &createdAt
	} else if item.Published != "" {
		post.CreatedAt = &item.Published
	}

	return post
}

// readBody reduces item HTML to plain text and returns the anchor targets in
// document order.
func readBody(body string) (string, []string) {
	if !strings.ContainsAny(body, "<&") {
		return body, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body, nil
	}

	doc.Find("br").ReplaceWithHtml("\n")

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && strings.TrimSpace(href) != "" {
			links = append(links, strings.TrimSpace(href))
		}
	})

	return doc.Text(), links
}
