package deal

import (
	"strings"
	"unicode"
)

// ExtractLink returns the first non-blank link facet URI, trimmed. When no
// facet qualifies it falls back to the first URL-like token in text.
func ExtractLink(text string, facets []Facet) string {
	for _, facet := range facets {
		for _, feature := range facet.Features {
			if feature.Type != LinkFeatureType {
				continue
			}
			if uri := strings.TrimFunc(feature.URI, isSpace); uri != "" {
				return uri
			}
		}
	}

	link, _ := MatchFirst(URLPattern, text)
	return link
}

func ExtractPrice(text string) string {
	price, _ := MatchFirst(PricePattern, text)
	return price
}

// DeriveName removes the first occurrence of link from text and collapses
// whitespace. A link that does not occur literally in text is ignored.
func DeriveName(text, link string) string {
	name := text
	if link != "" && strings.Contains(name, link) {
		name = strings.Replace(name, link, " ", 1)
	}
	return strings.Join(strings.FieldsFunc(name, isSpace), " ")
}

// isSpace follows the ECMAScript whitespace set: U+FEFF counts and U+0085
// does not, unlike unicode.IsSpace.
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\uFEFF':
		return true
	}
	return unicode.IsSpace(r)
}
