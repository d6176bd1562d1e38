// Package output provides formatters for command output.
//
// The CLI speaks three formats: JSON for pipes, YAML on request, and
// aligned tables for terminals. DetectFormat picks the right one when no
// explicit format is given. RoutesToTableData and ChangesetToTableData
// carry the column layouts the commands share.
package output

//go:generate gomarkdoc --output README.md .
