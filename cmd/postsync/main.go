// Package main provides the entry point for the postsync CLI tool.
package main

import (
	"github.com/synclab/postsync/cmd/postsync/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
