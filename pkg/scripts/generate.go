//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/synclab/postsync --repository.default-branch master --repository.path /pkg/scripts

// Package scripts generates the JavaScript event hooks attached to
// collection entries: response assertions for the test phase and the
// bearer-token header for the prerequest phase.
package scripts
