package deal

// LinkFeatureType marks a rich-text facet feature that carries a URI.
const LinkFeatureType = "app.bsky.richtext.facet#link"

// Post is a raw author-feed entry reduced to the fields the pipeline reads.
// Missing upstream fields are left as zero values. CreatedAt is nil only when
// upstream sent no timestamp at all.
type Post struct {
	ID        string
	Text      string
	Facets    []Facet
	CreatedAt *string
}

type Facet struct {
	Features []Feature
}

type Feature struct {
	Type string
	URI  string
}

// Deal is the normalized record served to clients.
type Deal struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	URL       string  `json:"url"`
	Platform  string  `json:"platform"`
	Timestamp *string `json:"timestamp,omitempty"`
}

// Published returns the raw timestamp, or "" when there is none.
func (d Deal) Published() string {
	if d.Timestamp == nil {
		return ""
	}
	return *d.Timestamp
}

// Platform is one row of the keyword table. Tables are ordered by priority.
type Platform struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Tag      string   `yaml:"tag" json:"tag" validate:"required"`
	Keywords []string `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
}
