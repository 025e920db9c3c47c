package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/deal-comb/app/bluesky"
	"github.com/lysyi3m/deal-comb/app/deal"
)

type Generator struct {
	baseURL string
	webURL  string
	version string
}

// NewGenerator takes the public base URL of this service for self links and
// the web app URL that channel links point at.
func NewGenerator(baseURL, webURL, version string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		webURL:  strings.TrimRight(cmp.Or(webURL, bluesky.DefaultWebURL), "/"),
		version: version,
	}
}

func (g *Generator) Run(feedConfig *Config, deals []deal.Deal) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(feedConfig.Title, feedConfig.Name), 4)
	g.writeElement(&buf, "link", fmt.Sprintf("%s/profile/%s", g.webURL, feedConfig.Actor), 4)
	g.writeElement(&buf, "description", fmt.Sprintf("Deals posted by %s", feedConfig.Actor), 4)

	if g.baseURL != "" {
		selfLink := fmt.Sprintf("%s/feeds/%s/rss", g.baseURL, feedConfig.Name)
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(selfLink)))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(deals) > 0 {
		if published := deal.ParseTimestamp(deals[0].Published()); !published.IsZero() {
			lastBuildDate = published
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Deal-Comb/%s", g.version), 4)

	for _, d := range deals {
		g.writeItem(&buf, d)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, d deal.Deal) {
	buf.WriteString("    <item>\n")

	if d.ID != "" {
		buf.WriteString("      <guid isPermaLink=\"false\">")
		xml.EscapeText(buf, []byte(d.ID))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", strings.TrimSpace(d.Platform+" "+d.Name), 6)
	g.writeElement(buf, "link", d.URL, 6)

	description := cmp.Or(d.Name, "No description available")
	if d.Price != "" {
		description = fmt.Sprintf("%s (%s)", description, d.Price)
	}
	g.writeElement(buf, "description", description, 6)

	if published := deal.ParseTimestamp(d.Published()); !published.IsZero() {
		g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	}

	g.writeElement(buf, "category", d.Platform, 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
