// Package routes defines the route descriptor model produced by source
// extraction and consumed by the reconciliation engine.
//
// A Route is an immutable description of one API operation: HTTP method, raw
// and canonical paths, handler name, and optional schema and source metadata.
// Identity across sync runs is the UniqueID, "METHOD:fullPath". The package
// also carries the naming policy that derives collection group and entry
// display names from a route.
package routes

import (
	"strings"

	"github.com/synclab/postsync/pkg/errors"
)

// Method is an HTTP method recognized by the route extractor.
type Method string

// HTTP methods supported for route definitions.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
)

// methods indexes the valid methods for parsing and validation.
var methods = map[Method]bool{
	MethodGet:     true,
	MethodPost:    true,
	MethodPut:     true,
	MethodPatch:   true,
	MethodDelete:  true,
	MethodOptions: true,
	MethodHead:    true,
}

// ParseMethod parses a method string, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !methods[m] {
		return "", errors.NewValidationError("method", s, "unknown HTTP method")
	}
	return m, nil
}

// Valid reports whether the method is one of the supported HTTP methods.
func (m Method) Valid() bool {
	return methods[m]
}

// String returns the method as its wire form.
func (m Method) String() string {
	return string(m)
}

// RateLimit describes a route's rate-limit configuration.
type RateLimit struct {
	Max        int    `json:"max" yaml:"max"`
	TimeWindow string `json:"time_window" yaml:"time_window"`
}

// Metadata carries where a route was found and how it is configured.
type Metadata struct {
	// SourceFile is the path of the file the route was extracted from.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// SourceName is the base name of the source file, used by the
	// grouping policy.
	SourceName string `json:"source_name" yaml:"source_name"`

	// SourceLine is the 1-indexed line of the route definition.
	SourceLine int `json:"source_line" yaml:"source_line"`

	// IsProtected is true when the route requires authentication.
	IsProtected bool `json:"is_protected" yaml:"is_protected"`

	// RateLimit is set when the route declares one.
	RateLimit *RateLimit `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// SchemaObject is a simplified placeholder for a declared JSON schema. Only
// presence and a short raw excerpt are retained; full schema parsing is out
// of scope.
type SchemaObject struct {
	Type string `json:"type" yaml:"type"`
	Raw  string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Schema describes the request/response shapes a route declares.
type Schema struct {
	Body     *SchemaObject         `json:"body,omitempty" yaml:"body,omitempty"`
	Query    *SchemaObject         `json:"query,omitempty" yaml:"query,omitempty"`
	Params   *SchemaObject         `json:"params,omitempty" yaml:"params,omitempty"`
	Response map[int]*SchemaObject `json:"response,omitempty" yaml:"response,omitempty"`
}

// HasResponse reports whether a response schema is declared for the status.
func (s *Schema) HasResponse(status int) bool {
	if s == nil {
		return false
	}
	_, ok := s.Response[status]
	return ok
}

// Route is an immutable description of one extracted API operation.
type Route struct {
	// Method is the HTTP method.
	Method Method `json:"method" yaml:"method"`

	// Path is the raw path as written in source, may contain :param segments.
	Path string `json:"path" yaml:"path"`

	// FullPath is the canonical path including the registration prefix.
	FullPath string `json:"full_path" yaml:"full_path"`

	// HandlerName is the name of the handler function, or "anonymous".
	HandlerName string `json:"handler_name" yaml:"handler_name"`

	// Description is the human description, usually from a doc comment.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Schema holds declared request/response shapes, when present.
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Metadata holds source location and protection info, when present.
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// UniqueID returns the stable identity used to match routes to collection
// entries across runs: "METHOD:fullPath". Two routes with the same UniqueID
// are the same logical operation.
func (r Route) UniqueID() string {
	return string(r.Method) + ":" + r.FullPath
}

// IsProtected reports whether the route requires authentication. Safe on
// routes without metadata.
func (r Route) IsProtected() bool {
	return r.Metadata != nil && r.Metadata.IsProtected
}

// Validate checks structural requirements on the route.
func (r Route) Validate() error {
	if !r.Method.Valid() {
		return errors.NewValidationError("method", string(r.Method), "unknown HTTP method")
	}
	if r.Path == "" {
		return errors.NewValidationError("path", r.Path, "cannot be empty")
	}
	if !strings.HasPrefix(r.Path, "/") {
		return errors.NewValidationError("path", r.Path, "must start with '/'")
	}
	if strings.ContainsAny(r.Path, " \t\n") {
		return errors.NewValidationError("path", r.Path, "cannot contain whitespace")
	}
	if r.FullPath == "" {
		return errors.NewValidationError("full_path", r.FullPath, "cannot be empty")
	}
	if !strings.HasPrefix(r.FullPath, "/") {
		return errors.NewValidationError("full_path", r.FullPath, "must start with '/'")
	}
	return nil
}
