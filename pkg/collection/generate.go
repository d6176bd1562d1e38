//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/synclab/postsync --repository.default-branch master --repository.path /pkg/collection

// Package collection models the persisted API-request collection
// document, with a codec that preserves unknown fields and key order so
// user edits survive rewrites byte for byte.
package collection
