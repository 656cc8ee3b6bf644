// Package api is the thin HTTP layer between the GFGM client and the
// backend REST API. It knows the origin, how to attach credentials and how
// to turn non-2xx responses into errors; it knows nothing about recipes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/credstore"
)

// AuthMode selects how stored credentials are attached to requests.
type AuthMode string

const (
	// AuthBearer sends the stored session token as a bearer token.
	AuthBearer AuthMode = "token"
	// AuthBasic sends the stored username/password pair as Basic auth.
	AuthBasic AuthMode = "basic"
)

// ParseAuthMode accepts "token" (or "bearer") and "basic".
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "token", "bearer":
		return AuthBearer, nil
	case "basic":
		return AuthBasic, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q (want token or basic)", s)
	}
}

const (
	headerRequestID   = "X-Request-ID"
	defaultUserAgent  = "gfgm-client"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

// Credentials overrides the stored credentials for a single request,
// e.g. the pair being tried by a login.
type Credentials struct {
	Username string
	Password string
}

// Request describes one call. Body is JSON-encoded unless Multipart is set.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any
	Multipart *Multipart
	// Anonymous requests never carry credentials (login, register).
	Anonymous bool
	// RequireAuth fails fast with ErrNoCredentials when nothing is stored.
	RequireAuth bool
	// Credentials, when set, are sent as Basic auth instead of the store's.
	Credentials *Credentials
}

// Client issues requests against one backend origin.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      credstore.Store
	authMode   AuthMode
	userAgent  string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthMode selects bearer or basic credentials.
func WithAuthMode(mode AuthMode) Option {
	return func(c *Client) { c.authMode = mode }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for baseURL reading credentials from store.
func New(baseURL string, store credstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      store,
		authMode:   AuthBearer,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string { return c.baseURL }

// AuthMode returns the configured credential strategy.
func (c *Client) AuthMode() AuthMode { return c.authMode }

// URL resolves path against the origin.
func (c *Client) URL(path string) (string, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return "", fmt.Errorf("build URL for %s: %w", path, err)
	}
	return u, nil
}

// Do executes req and decodes a JSON response into out (if non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

// Download returns the raw body of a GET; the caller closes it.
func (c *Client) Download(ctx context.Context, path string) (io.ReadCloser, string, error) {
	resp, err := c.send(ctx, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, "", err
	}
	return resp.Body, resp.Header.Get(headerContentType), nil
}

// GetJSON is a GET decoding into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// PostJSON is a POST of in decoding into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: in}, out)
}

// PutJSON is a PUT of in decoding into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: in}, out)
}

// PostMultipart is a multipart POST decoding into out.
func (c *Client) PostMultipart(ctx context.Context, path string, body *Multipart, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Multipart: body}, out)
}

// PutMultipart is a multipart PUT decoding into out.
func (c *Client) PutMultipart(ctx context.Context, path string, body *Multipart, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Multipart: body}, out)
}

// Delete issues a DELETE and ignores any body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// send builds, authenticates and executes req. Non-2xx responses are closed
// and returned as *Error.
func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	endpoint, err := c.URL(req.Path)
	if err != nil {
		return nil, err
	}
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", req.Method, req.Path, err)
	}
	if contentType != "" {
		httpReq.Header.Set(headerContentType, contentType)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)

	if err = c.authenticate(httpReq, req); err != nil {
		return nil, err
	}

	slog.Debug("API request", "method", req.Method, "path", req.Path, "request_id", requestID)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		apiErr := errorFromResponse(resp)
		slog.Debug("API error response",
			"method", req.Method, "path", req.Path, "status", resp.StatusCode, "request_id", requestID)
		return nil, apiErr
	}
	return resp, nil
}

// authenticate attaches credentials according to the auth mode.
func (c *Client) authenticate(httpReq *http.Request, req Request) error {
	if req.Credentials != nil {
		httpReq.SetBasicAuth(req.Credentials.Username, req.Credentials.Password)
		return nil
	}
	if req.Anonymous || c.store == nil {
		if req.RequireAuth {
			return ErrNoCredentials
		}
		return nil
	}

	rec, err := c.store.Get()
	if errors.Is(err, credstore.ErrNoRecord) {
		if req.RequireAuth {
			return ErrNoCredentials
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	switch c.authMode {
	case AuthBasic:
		if rec.Username != "" && rec.Password != "" {
			httpReq.SetBasicAuth(rec.Username, rec.Password)
			return nil
		}
	default:
		if rec.Token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+rec.Token)
			return nil
		}
	}
	if req.RequireAuth {
		return ErrNoCredentials
	}
	return nil
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Multipart != nil {
		return req.Multipart.encode()
	}
	if req.Body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
	}
	return bytes.NewReader(data), contentTypeJSON, nil
}
