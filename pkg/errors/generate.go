//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/synclab/postsync --repository.default-branch master --repository.path /pkg/errors

// Package errors provides the typed error system for postsync: structured
// errors for I/O, parsing, validation, API, and merge failures, sentinel
// values for classification, and helpers for wrapping with context.
package errors
