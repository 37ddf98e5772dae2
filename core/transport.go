package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request when no custom http.Client is
// supplied. The original client relied on transport defaults and could hang
// indefinitely; a hard bound closes that gap.
const DefaultTimeout = 30 * time.Second

// Client is the single choke point for backend communication. Every domain
// operation is a thin named method on a service that builds a path, method
// and body and delegates here.
//
// Calls are independent: no deduplication, ordering or retry. Callers that
// race (fast pagination, typeahead) discard stale responses with a Guard.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   SessionStore
	log     *zap.Logger

	// onUnauthorized is invoked once per 401 response, before the error is
	// returned to the caller. Set by the auth manager during wiring.
	onUnauthorized func()
}

// NewClient builds a request client. baseURL should include the API prefix,
// e.g. "http://localhost:5000/api". A nil httpc gets a client with
// DefaultTimeout; a nil logger gets a no-op logger.
func NewClient(baseURL string, httpc *http.Client, store SessionStore, log *zap.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpc:   httpc,
		store:   store,
		log:     log,
	}
}

// OnUnauthorized registers the hook run whenever the backend answers 401.
// This replaces the original's ambient window-level rejection listener with
// an explicit interceptor every call routes through.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// token reads the current bearer token, or "" when no session is stored.
func (c *Client) token() string {
	s, err := c.store.Load()
	if err != nil {
		return ""
	}
	return s.Token
}

// Do executes one JSON API call. body (if non-nil) is JSON-encoded; out (if
// non-nil) receives the decoded response body. extra headers are merged over
// the defaults. A stored token is attached as a bearer credential, otherwise
// the call proceeds unauthenticated.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any, extra ...http.Header) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for _, h := range extra {
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}
	}

	return c.send(req, out)
}

// Upload sends one file as multipart form data (field name "file"). The
// JSON content type is deliberately omitted: the multipart writer supplies
// the content type with the correct boundary. The bearer token is still
// attached when present.
func (c *Client) Upload(ctx context.Context, path, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// errorBody is the JSON shape of backend rejections. Some endpoints use
// "error", a few use "msg".
type errorBody struct {
	Error string `json:"error"`
	Msg   string `json:"msg"`
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	c.log.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
		zap.Bool("authenticated", req.Header.Get("Authorization") != ""),
	)

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Context cancellation is the caller's doing; pass it through.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return err
		}
		c.log.Debug("api request failed", zap.String("url", req.URL.String()), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	c.log.Debug("api response",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		message := ""
		if json.Unmarshal(data, &eb) == nil {
			if eb.Error != "" {
				message = eb.Error
			} else if eb.Msg != "" {
				message = eb.Msg
			}
		}
		apiErr := NewAPIError(resp.StatusCode, message)

		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
