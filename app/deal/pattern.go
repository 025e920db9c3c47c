package deal

import "regexp"

// Pattern is a compiled, unanchored matcher with first-match-wins semantics.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

func NewPattern(name, expr string) *Pattern {
	return &Pattern{Name: name, re: regexp.MustCompile(expr)}
}

// nonSpace is the complement of the ECMAScript \s class. Go's \S only
// excludes ASCII whitespace, so a path would run through U+00A0 or U+3000.
const nonSpace = `[^\s\x0B\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`

var (
	// URLPattern matches either a scheme or www prefixed host, or a bare
	// sub.domain.tld token, each with an optional path. Case-insensitivity is
	// spelled out on the prefix since (?i) would let [a-zA-Z] match U+212A.
	URLPattern = NewPattern("url", `(?:[hH][tT][tT][pP][sS]?://|[wW][wW][wW]\.)[\w\-\.]+\.[a-zA-Z]{2,}(?:/`+nonSpace+`*)?|([\w-]+\.)+([a-zA-Z]{2,})(?:/`+nonSpace+`*)?`)

	PricePattern = NewPattern("price", `[$€]\d+(?:\.\d+)?`)
)

// MatchFirst returns the leftmost match of p in text.
func MatchFirst(p *Pattern, text string) (string, bool) {
	loc := p.re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}
