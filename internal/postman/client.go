package postman

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/logging"
)

// DefaultBaseURL is the Postman REST API endpoint.
const DefaultBaseURL = "https://api.getpostman.com"

// DefaultTimeout bounds each API request unless overridden by WithTimeout
// or WithHTTPClient.
const DefaultTimeout = 30 * time.Second

// apiKeyHeader carries the Postman API key on every request.
const apiKeyHeader = "X-Api-Key"

// errorBodyLimit caps how much of an error response body is carried into
// error messages.
const errorBodyLimit = 200

// Client talks to the Postman REST API. Collections move as whole
// documents: fetch returns the full document, update replaces the remote
// copy wholesale.
type Client struct {
	http    *http.Client
	auth    Authenticator
	baseURL string
	log     *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at a local
// server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Postman API client authenticating with the given key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		auth:    &HeaderAuth{Name: apiKeyHeader, Value: apiKey},
		baseURL: DefaultBaseURL,
		log:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectionInfo describes one collection as returned by the listing
// endpoint.
type CollectionInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UID       string `json:"uid"`
	UpdatedAt string `json:"updatedAt"`
}

// collectionEnvelope is the {"collection": ...} wrapper the API uses for
// both request and response bodies.
type collectionEnvelope struct {
	Collection *collection.Document `json:"collection"`
}

type createResponse struct {
	Collection struct {
		ID  string `json:"id"`
		UID string `json:"uid"`
	} `json:"collection"`
}

type listResponse struct {
	Collections []CollectionInfo `json:"collections"`
}

// FetchCollection downloads the collection with the given id and unwraps
// the response envelope.
func (c *Client) FetchCollection(ctx context.Context, id string) (*collection.Document, error) {
	c.log.Info().Str("collection_id", id).Msg("Fetching collection")

	data, err := c.do(ctx, http.MethodGet, "/collections/"+id, nil, nil)
	if err != nil {
		return nil, err
	}

	var env collectionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.WrapParse("json", "collection response", err)
	}
	if env.Collection == nil {
		return nil, errors.NewParseError("json", "", "response missing collection field", nil)
	}

	c.log.Info().Str("name", env.Collection.Info.Name).Msg("Fetched collection")
	return env.Collection, nil
}

// UpdateCollection replaces the remote collection with doc. The API has no
// partial patching, so the full document is uploaded every time.
func (c *Client) UpdateCollection(ctx context.Context, id string, doc *collection.Document) error {
	c.log.Info().Str("collection_id", id).Msg("Updating collection")

	if _, err := c.do(ctx, http.MethodPut, "/collections/"+id, nil, collectionEnvelope{Collection: doc}); err != nil {
		return err
	}

	c.log.Info().Str("collection_id", id).Msg("Updated collection")
	return nil
}

// CreateCollection uploads doc as a new collection, optionally into a
// workspace, and returns the new collection id.
func (c *Client) CreateCollection(ctx context.Context, doc *collection.Document, workspaceID string) (string, error) {
	c.log.Info().Msg("Creating collection")

	var query url.Values
	if workspaceID != "" {
		query = url.Values{"workspace": []string{workspaceID}}
	}

	data, err := c.do(ctx, http.MethodPost, "/collections", query, collectionEnvelope{Collection: doc})
	if err != nil {
		return "", err
	}

	var out createResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", errors.WrapParse("json", "create response", err)
	}

	// The API reports both an id and an owner-scoped uid. The uid is what
	// the other endpoints accept, so prefer it.
	id := out.Collection.UID
	if id == "" {
		id = out.Collection.ID
	}
	if id == "" {
		return "", errors.NewParseError("json", "", "response missing collection id", nil)
	}

	c.log.Info().Str("collection_id", id).Msg("Created collection")
	return id, nil
}

// ListCollections returns metadata for every collection the API key can
// see.
func (c *Client) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	c.log.Info().Msg("Listing collections")

	data, err := c.do(ctx, http.MethodGet, "/collections", nil, nil)
	if err != nil {
		return nil, err
	}

	var out listResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.WrapParse("json", "list response", err)
	}

	c.log.Info().Int("count", len(out.Collections)).Msg("Listed collections")
	return out.Collections, nil
}

// do performs one API request and returns the raw response body. Non-2xx
// statuses come back as typed errors, never as a body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Errorf("create request %s %s: %w", method, u, err)
	}

	c.auth.Apply(req)
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(method, u, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(method, u, resp.StatusCode, data)
	}
	return data, nil
}

// statusError converts a non-2xx response into a typed error. Well-known
// statuses get a stable message; everything else carries a clipped body
// excerpt.
func (c *Client) statusError(method, url string, status int, body []byte) error {
	msg := string(body)
	if len(msg) > errorBodyLimit {
		msg = msg[:errorBodyLimit]
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		msg = "invalid API key or unauthorized"
	case http.StatusNotFound:
		msg = "collection not found"
	case http.StatusTooManyRequests:
		msg = "rate limit exceeded, try again later"
	}

	c.log.Error().
		Str("method", method).
		Str("url", url).
		Int("status", status).
		Msg("Postman API request failed")

	return errors.NewAPIError(method, url, status, msg)
}
