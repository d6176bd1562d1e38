//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/synclab/postsync --repository.default-branch master --repository.path /pkg/logging

// Package logging configures zerolog for postsync: console or JSON
// output, level parsing, an emoji-friendly console writer, and test
// helpers for asserting on log output.
package logging
