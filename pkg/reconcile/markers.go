package reconcile

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/agentstation/utc"

	"github.com/synclab/postsync/pkg/errors"
)

// Marker fragments embedded in entry descriptions. The sync marker is
// appended after the user's text; the deprecation marker is prepended
// ahead of it. Both carry a UTC timestamp.
const (
	syncMarkerTag  = "_Last synced:"
	deprecationTag = "**DEPRECATED**"
)

// deprecationStamp extracts the timestamp from a deprecation marker. The
// character class is deliberately loose: it has to accept both the RFC
// 3339 form written now and the zone-less ISO form older documents carry.
var deprecationStamp = regexp.MustCompile(`\(as of ([0-9TZz:.+-]+)\)`)

// timestampLayouts are tried in order by ParseTimestamp. Inputs without a
// zone are taken as UTC; Go's parser accepts fractional seconds against
// both layouts.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// SyncMarker renders the marker appended to a synchronized description.
func SyncMarker(at utc.Time) string {
	return "\n\n_Last synced: " + at.Format(time.RFC3339) + "_"
}

// HasSyncMarker reports whether desc carries a sync marker.
func HasSyncMarker(desc string) bool {
	return strings.Contains(desc, syncMarkerTag)
}

// StripSyncMarker removes the sync marker and everything after it,
// trimming trailing whitespace from the remaining user text. Descriptions
// without a marker come back unchanged.
func StripSyncMarker(desc string) string {
	i := strings.Index(desc, syncMarkerTag)
	if i < 0 {
		return desc
	}
	return strings.TrimRightFunc(desc[:i], unicode.IsSpace)
}

// DeprecationMarker renders the marker prepended to a deprecated
// description, including the blank line separating it from the text.
func DeprecationMarker(at utc.Time) string {
	return "**DEPRECATED** (as of " + at.Format(time.RFC3339) + ")\n\n"
}

// IsDeprecated reports whether desc carries a deprecation marker.
func IsDeprecated(desc string) bool {
	return strings.Contains(desc, deprecationTag)
}

// DeprecatedAt extracts and parses the timestamp of a description known to
// carry a deprecation marker. The raw stamp text is returned alongside so
// callers can report it when parsing fails.
func DeprecatedAt(desc string) (at utc.Time, raw string, err error) {
	m := deprecationStamp.FindStringSubmatch(desc)
	if m == nil {
		return utc.Time{}, "", errors.Errorf("%w: no timestamp in marker", errors.ErrUnparsableTimestamp)
	}
	at, err = ParseTimestamp(m[1])
	return at, m[1], err
}

// ParseTimestamp parses a marker timestamp: RFC 3339, or the zone-less ISO
// form taken as UTC.
func ParseTimestamp(s string) (utc.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utc.New(t), nil
		}
	}
	return utc.Time{}, errors.Errorf("%w: %q", errors.ErrUnparsableTimestamp, s)
}
