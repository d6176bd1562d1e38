package reconcile

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/synclab/postsync/pkg/errors"
)

// DefaultDiffContext is the number of unchanged lines shown around each
// hunk of a rendered diff.
const DefaultDiffContext = 3

// Differ renders unified diffs between two serializations of a document,
// for showing what a merge would change before anything is written. The
// zero value is ready to use.
type Differ struct {
	// Context overrides DefaultDiffContext when positive.
	Context int
}

// Diff returns a unified diff of two document serializations. The labels
// become the ---/+++ file headers. An empty string means the snapshots
// are identical.
func (d Differ) Diff(before, after []byte, fromLabel, toLabel string) (string, error) {
	n := d.Context
	if n <= 0 {
		n = DefaultDiffContext
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  n,
	})
	if err != nil {
		return "", errors.Errorf("render diff: %w", err)
	}
	return text, nil
}
