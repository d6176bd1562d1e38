package reconcile

import (
	"testing"
	"time"

	"github.com/agentstation/utc"

	"github.com/synclab/postsync/pkg/errors"
)

var markerTime = utc.New(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

func TestSyncMarker(t *testing.T) {
	marker := SyncMarker(markerTime)
	if marker != "\n\n_Last synced: 2025-06-01T12:00:00Z_" {
		t.Fatalf("unexpected marker: %q", marker)
	}
	if !HasSyncMarker("Some text" + marker) {
		t.Error("HasSyncMarker should detect an appended marker")
	}
	if HasSyncMarker("Some text") {
		t.Error("HasSyncMarker should not fire without a marker")
	}
}

func TestStripSyncMarker(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no marker", "User text", "User text"},
		{"no marker keeps whitespace", "User text  \n", "User text  \n"},
		{"marker stripped", "User text\n\n_Last synced: 2025-06-01T12:00:00Z_", "User text"},
		{"marker alone", "\n\n_Last synced: 2025-06-01T12:00:00Z_", ""},
		{"text after marker goes too", "Text\n\n_Last synced: x_ trailing", "Text"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripSyncMarker(tt.in); got != tt.want {
				t.Errorf("StripSyncMarker(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripThenAppendIsStable(t *testing.T) {
	desc := "Checks service"
	once := StripSyncMarker(desc) + SyncMarker(markerTime)
	twice := StripSyncMarker(once) + SyncMarker(markerTime)
	if once != twice {
		t.Errorf("strip+append not stable:\n once: %q\ntwice: %q", once, twice)
	}
}

func TestDeprecationMarker(t *testing.T) {
	marker := DeprecationMarker(markerTime)
	if marker != "**DEPRECATED** (as of 2025-06-01T12:00:00Z)\n\n" {
		t.Fatalf("unexpected marker: %q", marker)
	}
	desc := marker + "Old text"
	if !IsDeprecated(desc) {
		t.Error("IsDeprecated should detect the marker")
	}
	if IsDeprecated("Old text") {
		t.Error("IsDeprecated should not fire without a marker")
	}

	at, raw, err := DeprecatedAt(desc)
	if err != nil {
		t.Fatalf("DeprecatedAt: %v", err)
	}
	if raw != "2025-06-01T12:00:00Z" {
		t.Errorf("raw stamp = %q", raw)
	}
	if !at.Equal(markerTime) {
		t.Errorf("parsed time = %v, want %v", at, markerTime)
	}
}

func TestDeprecatedAtMissingStamp(t *testing.T) {
	_, _, err := DeprecatedAt("**DEPRECATED**\n\nno stamp here")
	if !errors.IsUnparsableTimestamp(err) {
		t.Fatalf("want unparsable timestamp error, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 utc", "2025-06-01T12:00:00Z", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"rfc3339 offset", "2025-06-01T14:00:00+02:00", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"zone-less is utc", "2025-06-01T12:00:00", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"zone-less with microseconds", "2025-06-01T12:00:00.123456", time.Date(2025, 6, 1, 12, 0, 0, 123456000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", tt.in, err)
			}
			if !got.Equal(utc.New(tt.want)) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseTimestamp("not a timestamp"); !errors.IsUnparsableTimestamp(err) {
		t.Errorf("want unparsable timestamp error, got %v", err)
	}
}
