package maptiler

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://api.maptiler.com"

// Maptiler is a Maptiler Cloud API session. It holds the API key and
// manufactures requests; it has no other state, so one session may serve any
// number of goroutines.
type Maptiler struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a session at construction time.
type Option func(*Maptiler)

// WithHTTPClient sets the HTTP client used to execute requests. Use this to
// control timeouts and connection pooling; the default is
// http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Maptiler) {
		m.client = client
	}
}

// WithBaseURL overrides the API base URL. The default is
// https://api.maptiler.com; overriding it is mostly useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(m *Maptiler) {
		m.baseURL = baseURL
	}
}

// New creates a session with the given Maptiler Cloud API key. The key is an
// opaque string and is not validated here; a bad key surfaces as an HTTP
// error when a request executes.
func New(apiKey string, opts ...Option) *Maptiler {
	m := &Maptiler{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CreateRequest pairs a validated request with this session's API key. The
// result can be executed any number of times; each Execute issues a fresh
// HTTP call.
func (m *Maptiler) CreateRequest(req Request) *ConstructedRequest {
	return &ConstructedRequest{session: m, inner: req}
}

// ConstructedRequest is a request bound to the session that created it,
// ready to execute.
type ConstructedRequest struct {
	session *Maptiler
	inner   Request
}

// Execute performs the API call and returns the raw response body. The body
// is opaque: image bytes or a vector tile, depending on the tileset's file
// extension.
//
// Transport failures are returned as *RequestError and non-200 responses as
// *HTTPError. There is no retry; callers own retry policy. Cancellation and
// deadlines come from ctx.
func (c *ConstructedRequest) Execute(ctx context.Context) ([]byte, error) {
	switch req := c.inner.(type) {
	case TileRequest:
		return c.executeTile(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported request type %T", c.inner)
	}
}

func (c *ConstructedRequest) executeTile(ctx context.Context, req TileRequest) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tileURL(req), nil)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	resp, err := c.session.client.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	return body, nil
}

// tileURL builds the tile fetch URL. The path and query shape is fixed by
// the remote API:
// https://api.maptiler.com/tiles/{endpoint}/{z}/{x}/{y}.{ext}?key={key}
func (c *ConstructedRequest) tileURL(req TileRequest) string {
	set := req.Set()
	return fmt.Sprintf("%s/tiles/%s/%d/%d/%d.%s?key=%s",
		c.session.baseURL, set.Endpoint(), req.Zoom(), req.X(), req.Y(), set.FileExtension(), c.session.apiKey)
}
