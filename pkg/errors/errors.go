// Package errors provides custom error types for the postsync system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Errorf formats according to a format specifier and returns the string as an
// error. It's an alias for fmt.Errorf so callers don't need both imports.
var Errorf = fmt.Errorf

// Is reports whether any error in err's chain matches target.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
var As = errors.As

// Unwrap returns the result of calling the Unwrap method on err.
var Unwrap = errors.Unwrap

// Join wraps the given errors into a single error.
var Join = errors.Join

// Common sentinel errors for the postsync system
var (
	// ErrMalformedDocument indicates a collection document that violates the
	// structural contract (missing info, info.name, or item sequence)
	ErrMalformedDocument = errors.New("malformed collection document")

	// ErrMergeFailed indicates an unexpected failure mid-merge; the document
	// state is untrustworthy and must not be persisted
	ErrMergeFailed = errors.New("merge failed")

	// ErrUnparsableTimestamp indicates a deprecation marker whose timestamp
	// could not be parsed
	ErrUnparsableTimestamp = errors.New("unparsable marker timestamp")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingConfig indicates that required configuration is absent
	ErrMissingConfig = errors.New("missing configuration")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrAPIKeyInvalid indicates that the provided API key is invalid
	ErrAPIKeyInvalid = errors.New("API key invalid")

	// ErrUnauthorized indicates that the remote API rejected the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrNotRepository indicates that a directory is not inside a git repository
	ErrNotRepository = errors.New("not a git repository")
)

// DocumentError represents a structural violation in a collection document.
// Merging aborts on this error before any mutation takes place.
type DocumentError struct {
	Path    string // file path, when known
	Field   string // offending field, e.g. "info.name"
	Message string
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed document %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("malformed document: %s", e.Message)
}

// Is implements errors.Is support
func (e *DocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// NewDocumentError creates a new DocumentError
func NewDocumentError(path, field, message string) *DocumentError {
	return &DocumentError{Path: path, Field: field, Message: message}
}

// MergeError represents an unexpected failure during a merge pass. Callers
// must treat the document as untrustworthy and not persist it.
type MergeError struct {
	Stage string // "index", "update", "insert", "deprecate", "expire"
	ID    string // entry identity involved, when known
	Err   error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("merge failed during %s of %s: %v", e.Stage, e.ID, e.Err)
	}
	return fmt.Sprintf("merge failed during %s: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MergeError) Is(target error) bool {
	return target == ErrMergeFailed
}

// NewMergeError creates a new MergeError
func NewMergeError(stage, id string, err error) *MergeError {
	return &MergeError{Stage: stage, ID: id, Err: err}
}

// TimestampError represents a deprecation marker timestamp that failed to
// parse. It is recovered locally (logged and reported), never escalated.
type TimestampError struct {
	Entry string // entry name or identity
	Value string // the raw timestamp text
	Err   error
}

// Error implements the error interface
func (e *TimestampError) Error() string {
	return fmt.Sprintf("unparsable deprecation timestamp %q on %s: %v", e.Value, e.Entry, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TimestampError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TimestampError) Is(target error) bool {
	return target == ErrUnparsableTimestamp
}

// NewTimestampError creates a new TimestampError
func NewTimestampError(entry, value string, err error) *TimestampError {
	return &TimestampError{Entry: entry, Value: value, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from the remote collection API
type APIError struct {
	Method     string // HTTP method of the failed request
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s %s (status %d): %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s %s: %s", e.Method, e.URL, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401, 403:
		return target == ErrUnauthorized
	case 404:
		return target == ErrNotFound
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(method, url string, statusCode int, message string) *APIError {
	return &APIError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// SyncError represents an error during an orchestrated sync step
type SyncError struct {
	Step string // "load", "scan", "merge", "write", "push", "stage"
	Err  error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error during %s: %v", e.Step, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(step string, err error) *SyncError {
	return &SyncError{Step: step, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "typescript"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "delete"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ProcessError represents an error from an external process or repository
// operation (git staging, hook installation)
type ProcessError struct {
	Operation string // What operation was being performed
	Target    string // The repository path or hook file involved
	Output    string // Diagnostic output, if any
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (%s): %v\nOutput: %s", e.Operation, e.Target, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (%s): %v", e.Operation, e.Target, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// NewProcessError creates a new ProcessError
func NewProcessError(operation, target, output string, err error) *ProcessError {
	return &ProcessError{
		Operation: operation,
		Target:    target,
		Output:    output,
		Err:       err,
	}
}

// Helper functions for error checking

// IsMalformedDocument checks if an error is a document structure error
func IsMalformedDocument(err error) bool {
	return errors.Is(err, ErrMalformedDocument)
}

// IsMergeFailed checks if an error is a mid-merge failure
func IsMergeFailed(err error) bool {
	return errors.Is(err, ErrMergeFailed)
}

// IsUnparsableTimestamp checks if an error is a marker timestamp parse failure
func IsUnparsableTimestamp(err error) bool {
	return errors.Is(err, ErrUnparsableTimestamp)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAPIKeyError checks if an error is related to API keys
func IsAPIKeyError(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired) || errors.Is(err, ErrAPIKeyInvalid)
}

// IsUnauthorized checks if an error is an authorization failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(method, url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapConfig wraps an error as a ConfigError
func WrapConfig(component string, err error) error {
	if err == nil {
		return nil
	}
	return NewConfigError(component, err.Error(), err)
}

// WrapSync wraps an error as a SyncError
func WrapSync(step string, err error) error {
	if err == nil {
		return nil
	}
	return NewSyncError(step, err)
}
