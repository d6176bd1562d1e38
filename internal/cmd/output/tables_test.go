package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synclab/postsync/pkg/reconcile"
	"github.com/synclab/postsync/pkg/routes"
)

func tableRoute(method routes.Method, fullPath, handler, sourceName string, protected bool) routes.Route {
	return routes.Route{
		Method:      method,
		Path:        fullPath,
		FullPath:    fullPath,
		HandlerName: handler,
		Metadata: &routes.Metadata{
			SourceFile:  "src/routes/" + sourceName,
			SourceName:  sourceName,
			SourceLine:  12,
			IsProtected: protected,
		},
	}
}

func TestRoutesToTableData(t *testing.T) {
	rts := []routes.Route{
		tableRoute(routes.MethodGet, "/api/users", "listUsers", "users.ts", false),
		tableRoute(routes.MethodPost, "/api/users", "createUser", "users.ts", true),
	}

	data := RoutesToTableData(rts, false)
	assert.Equal(t, []string{"METHOD", "PATH", "NAME", "GROUP", "PROTECTED", "FILE"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"GET", "/api/users", "Get Users", "Users", "-", "src/routes/users.ts"}, data.Rows[0])
	assert.Equal(t, []string{"POST", "/api/users", "Create Users", "Users", "yes", "src/routes/users.ts"}, data.Rows[1])
	assert.Len(t, data.ColumnAlignment, 6)
}

func TestRoutesToTableDataWide(t *testing.T) {
	rts := []routes.Route{
		tableRoute(routes.MethodGet, "/api/users", "listUsers", "users.ts", false),
	}

	data := RoutesToTableData(rts, true)
	assert.Equal(t, []string{"METHOD", "PATH", "NAME", "GROUP", "PROTECTED", "FILE", "HANDLER", "LINE"}, data.Headers)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "listUsers", data.Rows[0][6])
	assert.Equal(t, "12", data.Rows[0][7])
}

func TestRoutesToTableDataNoMetadata(t *testing.T) {
	rts := []routes.Route{
		{Method: routes.MethodGet, Path: "/api/health", FullPath: "/api/health", HandlerName: "health"},
	}

	data := RoutesToTableData(rts, true)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "-", data.Rows[0][5]) // FILE
	assert.Equal(t, "-", data.Rows[0][7]) // LINE
}

func TestChangesetToTableData(t *testing.T) {
	cs := &reconcile.Changeset{
		Added:      []routes.Route{tableRoute(routes.MethodGet, "/api/users", "listUsers", "users.ts", false)},
		Updated:    []routes.Route{tableRoute(routes.MethodPost, "/api/users", "createUser", "users.ts", false)},
		Deprecated: []string{"DELETE:/api/users/:id"},
		Removed:    []string{"GET:/api/legacy"},
		Errors:     []string{"entry GET:/api/old: unparsable marker timestamp"},
	}

	data := ChangesetToTableData(cs)
	assert.Equal(t, []string{"CHANGE", "ROUTE", "DETAIL"}, data.Headers)
	require.Len(t, data.Rows, 5)
	assert.Equal(t, []string{"added", "GET /api/users", "Get Users"}, data.Rows[0])
	assert.Equal(t, []string{"updated", "POST /api/users", "Create Users"}, data.Rows[1])
	assert.Equal(t, []string{"deprecated", "DELETE /api/users/:id", "-"}, data.Rows[2])
	assert.Equal(t, []string{"removed", "GET /api/legacy", "-"}, data.Rows[3])
	assert.Equal(t, "error", data.Rows[4][0])
	assert.Contains(t, data.Rows[4][2], "unparsable")
}

func TestFormatRoutesJSON(t *testing.T) {
	var buf bytes.Buffer
	rts := []routes.Route{tableRoute(routes.MethodGet, "/api/users", "listUsers", "users.ts", false)}

	require.NoError(t, FormatRoutes(&buf, rts, FormatJSON))

	var got []routes.Route
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, rts[0].UniqueID(), got[0].UniqueID())
}

func TestFormatRoutesDefaultsToTable(t *testing.T) {
	var buf bytes.Buffer
	rts := []routes.Route{tableRoute(routes.MethodGet, "/api/users", "listUsers", "users.ts", false)}

	require.NoError(t, FormatRoutes(&buf, rts, Format("")))
	assert.Contains(t, buf.String(), "METHOD")
	assert.Contains(t, buf.String(), "Get Users")
}

func TestFormatChangesetYAML(t *testing.T) {
	var buf bytes.Buffer
	cs := &reconcile.Changeset{
		Deprecated: []string{"DELETE:/api/users/:id"},
	}

	require.NoError(t, FormatChangeset(&buf, cs, FormatYAML))
	assert.Contains(t, buf.String(), "deprecated:")
	assert.Contains(t, buf.String(), "DELETE:/api/users/:id")
}

func TestFormatChangesetTable(t *testing.T) {
	var buf bytes.Buffer
	cs := &reconcile.Changeset{
		Removed: []string{"GET:/api/legacy"},
	}

	require.NoError(t, FormatChangeset(&buf, cs, FormatTable))
	assert.Contains(t, buf.String(), "CHANGE")
	assert.Contains(t, buf.String(), "GET /api/legacy")
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "GET /api/users", displayID("GET:/api/users"))
	assert.Equal(t, "DELETE /api/users/:id", displayID("DELETE:/api/users/:id"))
	assert.Equal(t, "unseparated", displayID("unseparated"))
}
