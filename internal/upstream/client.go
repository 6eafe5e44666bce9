package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paygate-console/internal/logger"
)

const (
	maxErrorBody = 64 << 10
	userAgent    = "paygate-console"
)

// Request describes one outbound call. Body is JSON-encoded when non-nil.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Token  string
	Accept string
}

// Caller is the part of Client the services depend on.
type Caller interface {
	DoJSON(ctx context.Context, req Request) (json.RawMessage, error)
	Stream(ctx context.Context, req Request) (*http.Response, error)
	Login(ctx context.Context, username string, password string) (json.RawMessage, error)
}

var _ Caller = (*Client)(nil)

// Client talks to the upstream payment API. It never retries: one handler
// invocation makes one outbound call.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: httpClient}
}

// Do sends req and returns the raw response whatever its status. The caller
// owns the body.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode upstream body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	accept := req.Accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("User-Agent", userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if id := logger.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream %s %s: %w", method, req.Path, err)
	}

	slog.DebugContext(ctx, "upstream call",
		"method", method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return resp, nil
}

// DoJSON sends req and returns the response body. A non-2xx status becomes
// *Error. An empty 2xx body yields nil.
func (c *Client) DoJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, readError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("upstream %s returned invalid JSON", req.Path)
	}

	return json.RawMessage(raw), nil
}

// Stream sends req and hands back the open response for copying. A non-2xx
// status is read, closed and returned as *Error.
func (c *Client) Stream(ctx context.Context, req Request) (*http.Response, error) {
	if req.Accept == "" {
		req.Accept = "*/*"
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, readError(resp)
	}

	return resp, nil
}

// Login exchanges credentials for the upstream auth payload.
func (c *Client) Login(ctx context.Context, username string, password string) (json.RawMessage, error) {
	return c.DoJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   PathLogin,
		Body: map[string]string{
			"username": username,
			"password": password,
		},
	})
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func readError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newError(resp.StatusCode, body)
}
