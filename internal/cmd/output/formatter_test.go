package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "table", want: FormatTable},
		{in: "wide", want: FormatWide},
		{in: "", want: Format("")},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFormatter(t *testing.T) {
	jf, ok := NewFormatter(FormatJSON).(*JSONFormatter)
	require.True(t, ok)
	assert.Equal(t, "  ", jf.Indent)

	_, ok = NewFormatter(FormatYAML).(*YAMLFormatter)
	assert.True(t, ok)

	tf, ok := NewFormatter(FormatTable).(*TableFormatter)
	require.True(t, ok)
	assert.False(t, tf.Wide)

	wf, ok := NewFormatter(FormatWide).(*TableFormatter)
	require.True(t, ok)
	assert.True(t, wf.Wide)

	_, ok = NewFormatter(Format("bogus")).(*TableFormatter)
	assert.True(t, ok)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		Name string `json:"name"`
	}{Name: "users"}

	require.NoError(t, (&JSONFormatter{Indent: "  "}).Format(&buf, data))
	assert.Equal(t, "{\n  \"name\": \"users\"\n}\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		Name  string   `yaml:"name"`
		Items []string `yaml:"items"`
	}{Name: "api", Items: []string{"a", "b"}}

	require.NoError(t, (&YAMLFormatter{}).Format(&buf, data))
	assert.Equal(t, "name: api\nitems:\n- a\n- b\n", buf.String())
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers: []string{"METHOD", "PATH"},
		Rows: [][]string{
			{"GET", "/api/users"},
			{"POST", "/api/users"},
		},
		ColumnAlignment: []Align{AlignCenter, AlignDefault},
	}

	require.NoError(t, (&TableFormatter{}).Format(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "/api/users")
	assert.Contains(t, out, "POST")
}

func TestTableFormatterStructSlice(t *testing.T) {
	var buf bytes.Buffer
	data := []struct {
		Name  string `json:"name"`
		Count int    `json:"entry_count"`
	}{
		{Name: "Users", Count: 42},
	}

	require.NoError(t, (&TableFormatter{}).Format(&buf, data))
	out := buf.String()
	// tablewriter renders headers uppercase, matching the domain tables.
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "ENTRY COUNT")
	assert.Contains(t, out, "42")
}

func TestTableFormatterSingleStruct(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		Version string `json:"version"`
		Commit  string `json:"commit"`
	}{Version: "1.2.3", Commit: "abc1234"}

	require.NoError(t, (&TableFormatter{}).Format(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "PROPERTY")
	assert.Contains(t, out, "Version")
	assert.Contains(t, out, "1.2.3")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, map[string]int{"entries": 3}))
	assert.Contains(t, buf.String(), "\"entries\": 3")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, FormatJSON, DetectFormat(f))
}
