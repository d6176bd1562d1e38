// Package gitstage wraps a git worktree for the sync pipeline: staging
// the collection file after a write, and installing the pre-commit hook
// that keeps the collection in step with route changes.
//
// The hook carries a marker line; install and uninstall refuse to touch
// a pre-commit hook some other tool wrote unless forced.
package gitstage

//go:generate gomarkdoc --output README.md .
