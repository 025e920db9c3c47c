package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/lysyi3m/deal-comb/app/bluesky"
	"github.com/lysyi3m/deal-comb/app/deal"
)

type mockSource struct {
	posts     []deal.Post
	err       error
	gotActor  string
	gotLimit  int
	hasCancel bool
}

func stamp(s string) *string {
	return &s
}

func (m *mockSource) Fetch(ctx context.Context, actor string, limit int) ([]deal.Post, error) {
	m.gotActor = actor
	m.gotLimit = limit
	_, m.hasCancel = ctx.Deadline()
	return m.posts, m.err
}

func TestBuilderRun(t *testing.T) {
	source := &mockSource{posts: []deal.Post{
		{ID: "t1", Text: "Old Steam key $1", CreatedAt: stamp("2024-01-01T10:00:00.000Z")},
		{ID: "t3", Text: "New Xbox deal www.example.com/x", CreatedAt: stamp("2024-01-03T10:00:00.000Z")},
		{ID: "t2", Text: "Middle", CreatedAt: stamp("2024-01-02T10:00:00.000Z")},
	}}

	builder := NewBuilder(map[string]Source{SourceAppView: source})
	feedConfig := NewConfig("deals", "did:plc:example", SourceAppView, 50, 5)

	deals, err := builder.Run(context.Background(), feedConfig)
	if err != nil {
		t.Fatal(err)
	}

	if source.gotActor != "did:plc:example" || source.gotLimit != 50 {
		t.Errorf("Unexpected fetch arguments: actor=%s limit=%d", source.gotActor, source.gotLimit)
	}
	if !source.hasCancel {
		t.Error("Expected fetch context to carry the feed timeout")
	}

	if len(deals) != 3 {
		t.Fatalf("Expected 3 deals, got %d", len(deals))
	}
	if deals[0].ID != "t3" || deals[1].ID != "t2" || deals[2].ID != "t1" {
		t.Errorf("Expected newest first, got %s, %s, %s", deals[0].ID, deals[1].ID, deals[2].ID)
	}
	if deals[0].URL != "www.example.com/x" || deals[0].Platform != "🟢" {
		t.Errorf("Unexpected first deal: %+v", deals[0])
	}
	if deals[2].Price != "$1" || deals[2].Platform != "♨" {
		t.Errorf("Unexpected last deal: %+v", deals[2])
	}
}

func TestBuilderRunWithoutTimeout(t *testing.T) {
	source := &mockSource{}
	builder := NewBuilder(map[string]Source{SourceAppView: source})

	if _, err := builder.Run(context.Background(), NewConfig("deals", "actor", SourceAppView, 50, 0)); err != nil {
		t.Fatal(err)
	}
	if source.hasCancel {
		t.Error("Expected no deadline when the feed has no timeout")
	}
}

func TestBuilderRunEmptyFeed(t *testing.T) {
	builder := NewBuilder(map[string]Source{SourceAppView: &mockSource{}})

	deals, err := builder.Run(context.Background(), NewConfig("deals", "actor", SourceAppView, 50, 0))
	if err != nil {
		t.Fatal(err)
	}
	if deals == nil {
		t.Error("Expected non-nil empty slice")
	}
	if len(deals) != 0 {
		t.Errorf("Expected 0 deals, got %d", len(deals))
	}
}

func TestBuilderRunUpstreamError(t *testing.T) {
	upstream := &bluesky.FetchError{Status: 500}
	builder := NewBuilder(map[string]Source{SourceAppView: &mockSource{err: upstream}})

	_, err := builder.Run(context.Background(), NewConfig("deals", "actor", SourceAppView, 50, 0))

	var fetchErr *bluesky.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
	if fetchErr.Status != 500 {
		t.Errorf("Expected status 500, got %d", fetchErr.Status)
	}
}

func TestBuilderRunUnknownSource(t *testing.T) {
	builder := NewBuilder(map[string]Source{})

	if _, err := builder.Run(context.Background(), NewConfig("deals", "actor", SourceRSS, 50, 0)); err == nil {
		t.Error("Expected error for unknown source")
	}
}

func TestBuilderRunUsesFeedPlatforms(t *testing.T) {
	source := &mockSource{posts: []deal.Post{{ID: "1", Text: "Catan board game"}}}
	builder := NewBuilder(map[string]Source{SourceAppView: source})

	feedConfig := NewConfig("board", "actor", SourceAppView, 10, 0)
	feedConfig.Platforms = []deal.Platform{{Name: "board", Tag: "B", Keywords: []string{"board"}}}
	feedConfig.classifier = deal.NewClassifier(feedConfig.Platforms)

	deals, err := builder.Run(context.Background(), feedConfig)
	if err != nil {
		t.Fatal(err)
	}
	if deals[0].Platform != "B" {
		t.Errorf("Expected custom tag 'B', got '%s'", deals[0].Platform)
	}
}
