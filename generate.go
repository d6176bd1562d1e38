//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/synclab/postsync --repository.default-branch main --repository.path /

// Package postsync keeps a persisted Postman collection synchronized
// with the Fastify routes declared in a TypeScript codebase, with
// non-destructive merging, deprecation lifecycle, remote push and git
// staging.
package postsync
