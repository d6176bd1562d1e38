package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/synclab/postsync/pkg/reconcile"
	"github.com/synclab/postsync/pkg/routes"
)

// RoutesToTableData converts extracted routes to table format. Wide adds
// the handler and source line columns.
func RoutesToTableData(rts []routes.Route, wide bool) Data {
	headers := []string{"METHOD", "PATH", "NAME", "GROUP", "PROTECTED", "FILE"}
	if wide {
		headers = append(headers, "HANDLER", "LINE")
	}

	alignment := []Align{
		AlignDefault, // METHOD
		AlignDefault, // PATH
		AlignDefault, // NAME
		AlignDefault, // GROUP
		AlignCenter,  // PROTECTED
		AlignDefault, // FILE
	}
	if wide {
		alignment = append(alignment, AlignDefault, AlignCenter)
	}

	rows := make([][]string, 0, len(rts))
	for _, rt := range rts {
		protected := "-"
		if rt.IsProtected() {
			protected = "yes"
		}

		file := "-"
		line := "-"
		if rt.Metadata != nil {
			if rt.Metadata.SourceFile != "" {
				file = rt.Metadata.SourceFile
			}
			if rt.Metadata.SourceLine > 0 {
				line = strconv.Itoa(rt.Metadata.SourceLine)
			}
		}

		row := []string{
			rt.Method.String(),
			rt.FullPath,
			routes.EntryName(rt),
			routes.GroupName(rt),
			protected,
			file,
		}
		if wide {
			row = append(row, rt.HandlerName, line)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: alignment,
	}
}

// ChangesetToTableData converts a merge report to table format, one row
// per change.
func ChangesetToTableData(cs *reconcile.Changeset) Data {
	headers := []string{"CHANGE", "ROUTE", "DETAIL"}

	var rows [][]string
	for _, rt := range cs.Added {
		rows = append(rows, []string{"added", rt.Method.String() + " " + rt.FullPath, routes.EntryName(rt)})
	}
	for _, rt := range cs.Updated {
		rows = append(rows, []string{"updated", rt.Method.String() + " " + rt.FullPath, routes.EntryName(rt)})
	}
	for _, id := range cs.Deprecated {
		rows = append(rows, []string{"deprecated", displayID(id), "-"})
	}
	for _, id := range cs.Removed {
		rows = append(rows, []string{"removed", displayID(id), "-"})
	}
	for _, msg := range cs.Errors {
		rows = append(rows, []string{"error", "-", msg})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
	}
}

// FormatRoutes handles the common pattern of rendering routes for output.
func FormatRoutes(w io.Writer, rts []routes.Route, format Format) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, FormatWide, "":
		data = RoutesToTableData(rts, format == FormatWide)
	default:
		data = rts
	}
	return formatter.Format(w, data)
}

// FormatChangeset handles the common pattern of rendering a merge report
// for output.
func FormatChangeset(w io.Writer, cs *reconcile.Changeset, format Format) error {
	formatter := NewFormatter(format)

	var data any
	switch format {
	case FormatTable, FormatWide, "":
		data = ChangesetToTableData(cs)
	default:
		data = cs
	}
	return formatter.Format(w, data)
}

// displayID rewrites an entry identity "METHOD:/path" for display.
func displayID(id string) string {
	if i := strings.Index(id, ":"); i > 0 {
		return id[:i] + " " + id[i+1:]
	}
	return id
}
