package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifferIdenticalSnapshots(t *testing.T) {
	snap := []byte("{\n  \"info\": {}\n}\n")
	out, err := Differ{}.Diff(snap, snap, "a.json", "b.json")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDifferRendersUnifiedDiff(t *testing.T) {
	before := []byte("line one\nline two\nline three\n")
	after := []byte("line one\nline 2\nline three\n")

	out, err := Differ{}.Diff(before, after, "collection.json (before)", "collection.json (after)")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "--- collection.json (before)"), "got %q", out)
	assert.Contains(t, out, "+++ collection.json (after)")
	assert.Contains(t, out, "-line two\n")
	assert.Contains(t, out, "+line 2\n")
}
