package errors_test

import (
	"fmt"
	"net/http"

	"github.com/synclab/postsync/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	// A structurally broken collection document
	err := &errors.DocumentError{
		Path:    "postman/api.json",
		Field:   "info.name",
		Message: "missing 'name' in info",
	}

	// Check error type
	if errors.IsMalformedDocument(err) {
		fmt.Println("Document cannot be merged")
	}

	// Output: Document cannot be merged
}

// Example_aPIError demonstrates remote API error handling.
func Example_aPIError() {
	err := &errors.APIError{
		Method:     "PUT",
		URL:        "https://api.getpostman.com/collections/abc123",
		StatusCode: 429,
		Message:    "Rate limit exceeded",
	}

	switch {
	case errors.IsRateLimited(err):
		fmt.Println("Rate limited - retry later")
	case errors.IsUnauthorized(err):
		fmt.Println("Check POSTMAN_API_KEY")
	case errors.IsNotFound(err):
		fmt.Println("No such collection")
	}

	// Output: Rate limited - retry later
}

// Example_errorWrapping demonstrates error wrapping patterns.
func Example_errorWrapping() {
	originalErr := fmt.Errorf("connection refused")

	// Wrap with IO error, then surface as a sync step failure
	ioErr := errors.WrapIO("connect", "api.getpostman.com", originalErr)
	syncErr := errors.WrapSync("push", ioErr)

	var target *errors.IOError
	if errors.As(syncErr, &target) {
		fmt.Println("IO failure during", target.Operation)
	}

	// Output: IO failure during connect
}

// Example_timestampError shows the fail-open timestamp policy.
func Example_timestampError() {
	err := errors.NewTimestampError("DELETE:/api/users/:id", "garbage", fmt.Errorf("cannot parse"))

	// Timestamp failures are reported, never escalated to a merge failure
	fmt.Println(errors.IsUnparsableTimestamp(err), errors.IsMergeFailed(err))

	// Output: true false
}

// Example_hTTPStatusMapping maps HTTP codes to error types.
func Example_hTTPStatusMapping() {
	mapHTTPError := func(method, url string, status int) error {
		return errors.NewAPIError(method, url, status, http.StatusText(status))
	}

	err := mapHTTPError("GET", "/collections/missing", http.StatusNotFound)
	if errors.IsNotFound(err) {
		fmt.Println("Collection does not exist")
	}

	// Output: Collection does not exist
}
