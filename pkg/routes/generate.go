//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/synclab/postsync --repository.default-branch master --repository.path /pkg/routes

// Package routes defines the route descriptor model shared by the
// extractor and the merge engine, plus the naming policy that turns
// descriptors into human-readable group and entry names.
package routes
