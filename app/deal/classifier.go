package deal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var DefaultPlatforms = []Platform{
	{Name: "figure", Tag: "🕴", Keywords: []string{"figure", "amiibo", "plush", "costume", "ornament"}},
	{Name: "nintendo", Tag: "🔀", Keywords: []string{"nintendo", "switch", "eshop", "game-key"}},
	{Name: "xbox", Tag: "🟢", Keywords: []string{"xbox", "xbo"}},
	{Name: "steam", Tag: "♨", Keywords: []string{"steam"}},
	{Name: "gog", Tag: "👴", Keywords: []string{"gog", "good old games"}},
	{Name: "playstation", Tag: "🎮", Keywords: []string{"ps4", "ps5", "playstation", "psn", "ps+"}},
	{Name: "video", Tag: "📀", Keywords: []string{"dvd", "blu-ray", "bluray", "4k", "uhd", "film", "movie", "youtube", "streaming", "animation"}},
	{Name: "apparel", Tag: "👕", Keywords: []string{"shirt", "merch"}},
	{Name: "computer", Tag: "💻", Keywords: []string{"pc", "computer", "controller", "windows", "cable", "laptop", "monitor", "accessories", "macbook"}},
	{Name: "book", Tag: "📚", Keywords: []string{"book", "kindle", "hardcover", "novel"}},
	{Name: "bundle", Tag: "📦", Keywords: []string{"humble", "bundle"}},
	{Name: "lego", Tag: "🧱", Keywords: []string{"lego", "nanoblock"}},
}

// Classifier maps text to the tag of the first platform with a matching
// keyword. Matching is on lower-cased text. Keywords are lowered once at
// construction; the table is read-only afterwards and safe for concurrent use.
type Classifier struct {
	platforms []Platform
}

func NewClassifier(platforms []Platform) *Classifier {
	lowered := make([]Platform, 0, len(platforms))
	for _, p := range platforms {
		keywords := make([]string, 0, len(p.Keywords))
		for _, k := range p.Keywords {
			if k == "" {
				continue
			}
			keywords = append(keywords, lower(k))
		}
		lowered = append(lowered, Platform{Name: p.Name, Tag: p.Tag, Keywords: keywords})
	}
	return &Classifier{platforms: lowered}
}

func (c *Classifier) Classify(text string) string {
	if text == "" {
		return ""
	}

	lowered := lower(text)
	for _, p := range c.platforms {
		for _, k := range p.Keywords {
			if strings.Contains(lowered, k) {
				return p.Tag
			}
		}
	}
	return ""
}

func (c *Classifier) Platforms() []Platform {
	return c.platforms
}

// lower applies the root-locale lower-case mapping. Full case folding would
// also equate pairs such as "ß" and "ss". A cases.Caser keeps state between
// calls, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
