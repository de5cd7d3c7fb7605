package utils

import (
	"time"
)

// releaseDateLayouts covers the precision levels MusicBrainz reports release
// dates at: full date, year-month, bare year.
var releaseDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseReleaseDate parses a catalog release-date string leniently. The raw
// string is always stored alongside; the parsed value is nil when the string
// matches none of the known precisions.
func ParseReleaseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
