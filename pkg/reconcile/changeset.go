package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"

	"github.com/synclab/postsync/pkg/routes"
)

// Changeset reports what a single merge changed. Added and Updated carry
// the full routes involved; Deprecated and Removed carry entry identities,
// since the routes behind them no longer exist.
type Changeset struct {
	Added      []routes.Route `json:"added,omitempty" yaml:"added,omitempty"`
	Updated    []routes.Route `json:"updated,omitempty" yaml:"updated,omitempty"`
	Deprecated []string       `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Removed    []string       `json:"removed,omitempty" yaml:"removed,omitempty"`
	Errors     []string       `json:"errors,omitempty" yaml:"errors,omitempty"`
	SyncedAt   utc.Time       `json:"synced_at" yaml:"synced_at"`
}

// HasChanges reports whether the merge altered the document.
func (c *Changeset) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Updated) > 0 ||
		len(c.Deprecated) > 0 || len(c.Removed) > 0
}

// HasErrors reports whether the merge hit recoverable inconsistencies.
func (c *Changeset) HasErrors() bool {
	return len(c.Errors) > 0
}

// Summary renders the human-readable change report.
func (c *Changeset) Summary() string {
	var lines []string
	if len(c.Added) > 0 {
		lines = append(lines, fmt.Sprintf("  ✅ Added: %d routes", len(c.Added)))
	}
	if len(c.Updated) > 0 {
		lines = append(lines, fmt.Sprintf("  🔄 Updated: %d routes", len(c.Updated)))
	}
	if len(c.Deprecated) > 0 {
		lines = append(lines, fmt.Sprintf("  ⚠️  Deprecated: %d routes", len(c.Deprecated)))
	}
	if len(c.Removed) > 0 {
		lines = append(lines, fmt.Sprintf("  🗑️  Removed: %d routes", len(c.Removed)))
	}
	if len(c.Errors) > 0 {
		lines = append(lines, fmt.Sprintf("  ❌ Errors: %d", len(c.Errors)))
	}
	if len(lines) == 0 {
		return "  No changes"
	}
	return strings.Join(lines, "\n")
}

// String implements fmt.Stringer.
func (c *Changeset) String() string {
	return c.Summary()
}
