package postman

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// HeaderAuth implements static header authentication. The Postman API uses
// it with the X-Api-Key header.
type HeaderAuth struct {
	Name  string
	Value string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) {
	req.Header.Set(a.Name, a.Value)
}
