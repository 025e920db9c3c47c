package deal

import (
	"slices"
	"time"

	"github.com/araddon/dateparse"
)

// SortByRecency orders deals newest first in place. Timestamps that cannot be
// parsed sort after every valid one; equal keys keep their input order.
func SortByRecency(deals []Deal) {
	keys := make(map[string]time.Time, len(deals))
	for _, d := range deals {
		if _, ok := keys[d.Published()]; !ok {
			keys[d.Published()] = ParseTimestamp(d.Published())
		}
	}

	slices.SortStableFunc(deals, func(a, b Deal) int {
		return keys[b.Published()].Compare(keys[a.Published()])
	})
}

// ParseTimestamp returns the zero time for empty or unparseable input.
// Values without a zone are read as UTC.
func ParseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := dateparse.ParseIn(value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
