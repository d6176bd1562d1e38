// Package openapi renders extracted routes as an OpenAPI 3 document.
//
// The export is a projection of what the scanner knows: paths, methods,
// handler names, display names, declared response statuses and which
// routes sit behind the auth hook. Request and response schemas are
// stubs; the extractor keeps only excerpts of the source schemas.
package openapi

//go:generate gomarkdoc --output README.md .
