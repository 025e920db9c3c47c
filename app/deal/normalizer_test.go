package deal

import (
	"strings"
	"testing"
)

func TestNormalizerRun(t *testing.T) {
	normalizer := NewNormalizer(nil)

	post := Post{
		ID:        "cid-1",
		Text:      "  Great item available at http://buy.com/item for cheap! $19.99 Switch  ",
		CreatedAt: stamp("2024-01-01T10:00:00.000Z"),
	}

	d := normalizer.Run(post)

	if d.ID != "cid-1" {
		t.Errorf("Expected id 'cid-1', got '%s'", d.ID)
	}
	if d.URL != "http://buy.com/item" {
		t.Errorf("Expected url 'http://buy.com/item', got '%s'", d.URL)
	}
	if d.Name != "Great item available at for cheap! $19.99 Switch" {
		t.Errorf("Unexpected name '%s'", d.Name)
	}
	if d.Price != "$19.99" {
		t.Errorf("Expected price '$19.99', got '%s'", d.Price)
	}
	if d.Platform != "🔀" {
		t.Errorf("Expected Nintendo tag, got '%s'", d.Platform)
	}
	if d.Published() != "2024-01-01T10:00:00.000Z" {
		t.Errorf("Expected timestamp '2024-01-01T10:00:00.000Z', got '%s'", d.Published())
	}
}

func TestNormalizerFacetLinkRemovedFromName(t *testing.T) {
	normalizer := NewNormalizer(nil)

	d := normalizer.Run(Post{
		ID:     "cid-2",
		Text:   "Another great item! https://facet.link/item is the link.",
		Facets: []Facet{linkFacet("https://facet.link/item")},
	})

	if d.URL != "https://facet.link/item" {
		t.Errorf("Expected facet url, got '%s'", d.URL)
	}
	if d.Name != "Another great item! is the link." {
		t.Errorf("Unexpected name '%s'", d.Name)
	}
	if strings.Contains(d.Name, d.URL) {
		t.Error("Name must not contain the extracted url")
	}
}

func TestNormalizerClassifiesDerivedName(t *testing.T) {
	normalizer := NewNormalizer(nil)

	// "steam" only appears inside the url, which is removed before classification.
	d := normalizer.Run(Post{ID: "cid-3", Text: "Cheap keys https://steamdeals.example.com"})

	if d.Platform != "" {
		t.Errorf("Expected no platform, got '%s'", d.Platform)
	}
}

func TestNormalizerEmptyPost(t *testing.T) {
	normalizer := NewNormalizer(NewClassifier(DefaultPlatforms))

	d := normalizer.Run(Post{ID: "cid-empty"})

	if d.ID != "cid-empty" {
		t.Errorf("Expected id 'cid-empty', got '%s'", d.ID)
	}
	if d.Name != "" || d.URL != "" || d.Price != "" || d.Platform != "" || d.Timestamp != nil {
		t.Errorf("Expected empty fields, got %+v", d)
	}
}

func TestNormalizerRunAll(t *testing.T) {
	normalizer := NewNormalizer(nil)

	if deals := normalizer.RunAll(nil); deals == nil || len(deals) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", deals)
	}

	deals := normalizer.RunAll([]Post{{ID: "a"}, {ID: "b"}})
	if len(deals) != 2 || deals[0].ID != "a" || deals[1].ID != "b" {
		t.Errorf("Expected one deal per post in order, got %+v", deals)
	}
}

func TestNormalizerUnicodeSpaceEndsURL(t *testing.T) {
	d := NewNormalizer(nil).Run(Post{ID: "cid-4", Text: "Deal at http://buy.com/item\u00a0for cheap $5 Switch"})

	if d.URL != "http://buy.com/item" {
		t.Errorf("Expected url 'http://buy.com/item', got %q", d.URL)
	}
	if d.Name != "Deal at for cheap $5 Switch" {
		t.Errorf("Unexpected name %q", d.Name)
	}
}

func TestNormalizerTimestampPresence(t *testing.T) {
	normalizer := NewNormalizer(nil)

	blank := normalizer.Run(Post{ID: "blank", CreatedAt: stamp("")})
	if blank.Timestamp == nil || *blank.Timestamp != "" {
		t.Errorf("Expected empty timestamp to be kept, got %v", blank.Timestamp)
	}

	absent := normalizer.Run(Post{ID: "absent"})
	if absent.Timestamp != nil {
		t.Errorf("Expected no timestamp, got %q", *absent.Timestamp)
	}
}
