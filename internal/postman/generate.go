// Package postman is the HTTP client for the Postman REST API.
//
// Collections move as whole documents. Fetch unwraps the top-level
// "collection" envelope; update and create wrap the outgoing document in
// the same envelope. There is no partial patching, which matches how the
// sync engine works: it always produces a complete document.
//
// Errors are typed. 401 and 404 and 429 responses satisfy
// errors.IsUnauthorized, errors.IsNotFound and errors.IsRateLimited;
// other non-2xx statuses surface as *errors.APIError carrying a clipped
// body excerpt.
package postman

//go:generate gomarkdoc --output README.md .
