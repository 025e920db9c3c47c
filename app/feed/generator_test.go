package feed

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/lysyi3m/deal-comb/app/deal"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator("https://deals.example.com/", "https://web.example.com/", "test")
	feedConfig := NewConfig("games", "did:plc:example", SourceAppView, 50, 30)
	feedConfig.Title = "Game Deals"

	deals := []deal.Deal{
		{
			ID:        "cid-2",
			Name:      "Zelda on sale",
			Price:     "$39.99",
			URL:       "https://shop.example.com/zelda?a=1&b=2",
			Platform:  "🔀",
			Timestamp: stamp("2024-01-02T10:00:00.000Z"),
		},
		{
			ID:   "cid-1",
			Name: "Mystery <item>",
		},
	}

	rss, err := generator.Run(feedConfig, deals)
	if err != nil {
		t.Fatal(err)
	}

	var parsed struct {
		Channel struct {
			Title         string `xml:"title"`
			LastBuildDate string `xml:"lastBuildDate"`
			Generator     string `xml:"generator"`
			Items         []struct {
				GUID        string `xml:"guid"`
				Title       string `xml:"title"`
				Link        string `xml:"link"`
				Description string `xml:"description"`
				PubDate     string `xml:"pubDate"`
				Category    string `xml:"category"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal([]byte(rss), &parsed); err != nil {
		t.Fatalf("Generated RSS is not valid XML: %v", err)
	}

	if parsed.Channel.Title != "Game Deals" {
		t.Errorf("Expected title 'Game Deals', got '%s'", parsed.Channel.Title)
	}
	if !strings.Contains(rss, "<link>https://web.example.com/profile/did:plc:example</link>") {
		t.Error("Expected channel link on the configured web URL")
	}
	if parsed.Channel.Generator != "Deal-Comb/test" {
		t.Errorf("Expected generator 'Deal-Comb/test', got '%s'", parsed.Channel.Generator)
	}
	if parsed.Channel.LastBuildDate != "Tue, 02 Jan 2024 10:00:00 +0000" {
		t.Errorf("Expected lastBuildDate from newest deal, got '%s'", parsed.Channel.LastBuildDate)
	}
	if !strings.Contains(rss, `href="https://deals.example.com/feeds/games/rss"`) {
		t.Error("Expected self link with trimmed base URL")
	}

	if len(parsed.Channel.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(parsed.Channel.Items))
	}

	first := parsed.Channel.Items[0]
	if first.GUID != "cid-2" {
		t.Errorf("Expected guid 'cid-2', got '%s'", first.GUID)
	}
	if first.Title != "🔀 Zelda on sale" {
		t.Errorf("Unexpected title '%s'", first.Title)
	}
	if first.Link != "https://shop.example.com/zelda?a=1&b=2" {
		t.Errorf("Unexpected link '%s'", first.Link)
	}
	if first.Description != "Zelda on sale ($39.99)" {
		t.Errorf("Unexpected description '%s'", first.Description)
	}
	if first.Category != "🔀" {
		t.Errorf("Unexpected category '%s'", first.Category)
	}

	second := parsed.Channel.Items[1]
	if second.Title != "Mystery <item>" {
		t.Errorf("Expected escaped title to round-trip, got '%s'", second.Title)
	}
	if second.PubDate != "" || second.Link != "" {
		t.Errorf("Expected no pubDate or link, got %+v", second)
	}
}

func TestGenerateRSSWithoutBaseURL(t *testing.T) {
	generator := NewGenerator("", "", "dev")

	rss, err := generator.Run(NewConfig("empty", "actor", SourceAppView, 10, 10), []deal.Deal{})
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(rss, "atom:link") {
		t.Error("Expected no self link without a base URL")
	}
	if !strings.Contains(rss, "<link>https://bsky.app/profile/actor</link>") {
		t.Error("Expected channel link on the default web URL")
	}
	if !strings.Contains(rss, "<title>empty</title>") {
		t.Error("Expected feed name as fallback title")
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Expected no items")
	}
}
