//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/synclab/postsync --repository.default-branch master --repository.path /pkg/reconcile

// Package reconcile merges extracted routes into a collection document
// while preserving everything users edited by hand: display names, test
// scripts, custom prerequest hooks, saved responses, and description text.
//
// A merge runs three passes over one clock reading: apply (update matched
// entries, insert new ones), deprecate (mark entries whose route
// disappeared), and expire (drop entries deprecated longer than the
// retention window). The merge mutates the document in place and reports
// what changed.
package reconcile
