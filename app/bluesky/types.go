package bluesky

import (
	"golang.org/x/time/rate"

	"github.com/lysyi3m/deal-comb/app/deal"
)

const (
	DefaultAppViewURL = "https://public.api.bsky.app"
	DefaultWebURL     = "https://bsky.app"

	authorFeedPath = "/xrpc/app.bsky.feed.getAuthorFeed"
)

// Options configures both upstream sources.
type Options struct {
	BaseURL   string
	UserAgent string
	Limiter   *rate.Limiter
}

// NewLimiter returns nil when perSecond is not positive, which disables limiting.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

type authorFeedResponse struct {
	Cursor string          `json:"cursor"`
	Feed   []feedViewEntry `json:"feed"`
}

type feedViewEntry struct {
	Post postView `json:"post"`
}

type postView struct {
	URI    string     `json:"uri"`
	CID    string     `json:"cid"`
	Record postRecord `json:"record"`
}

type postRecord struct {
	Text      string        `json:"text"`
	Facets    []facetRecord `json:"facets"`
	CreatedAt *string       `json:"createdAt"`
}

type facetRecord struct {
	Features []featureRecord `json:"features"`
}

type featureRecord struct {
	Type string `json:"$type"`
	URI  string `json:"uri"`
}

func (p postView) toPost() deal.Post {
	facets := make([]deal.Facet, 0, len(p.Record.Facets))
	for _, f := range p.Record.Facets {
		features := make([]deal.Feature, 0, len(f.Features))
		for _, ft := range f.Features {
			features = append(features, deal.Feature{Type: ft.Type, URI: ft.URI})
		}
		facets = append(facets, deal.Facet{Features: features})
	}

	return deal.Post{
		ID:        p.CID,
		Text:      p.Record.Text,
		Facets:    facets,
		CreatedAt: p.Record.CreatedAt,
	}
}
