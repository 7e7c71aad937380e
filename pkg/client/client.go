package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "storefront-client/1.0"
)

// Client calls the storefront API. Authenticated calls that are rejected
// with 401 trigger at most one token refresh followed by one replay.
type Client struct {
	baseURL       string
	http          *http.Client
	session       Session
	logger        *zap.Logger
	loginRedirect func()

	// one refresh at a time
	refreshMu sync.Mutex
}

type Option func(*Client)

// WithHTTPClient replaces the default client with a 30s timeout
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLoginRedirect sets the callback invoked after the session is cleared
// because it could not be refreshed
func WithLoginRedirect(fn func()) Option {
	return func(c *Client) { c.loginRedirect = fn }
}

// New creates a client for baseURL, which includes the API prefix,
// e.g. http://localhost:8080/api/v1
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: NewMemorySession(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() Session {
	return c.session
}

type request struct {
	method string
	path   string
	body   any
	// refreshable requests recover from a 401 by refreshing the session once
	refreshable bool
}

// do runs req through the pipeline and decodes the response body into out
func (c *Client) do(ctx context.Context, req request, out any) error {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	access := c.session.AccessToken()
	err := c.send(ctx, req.method, req.path, payload, access, out)
	if !req.refreshable || !IsUnauthorized(err) || ctx.Err() != nil {
		return err
	}

	c.logger.Debug("Access token rejected, refreshing session", zap.String("path", req.path))

	if err := c.refreshAfter(ctx, access); err != nil {
		return err
	}

	// replayed once; a second 401 goes back to the caller
	return c.send(ctx, req.method, req.path, payload, c.session.AccessToken(), out)
}

// refreshAfter refreshes the session unless another request already replaced
// the stale access token while this one waited
func (c *Client) refreshAfter(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.session.AccessToken()
	if current != "" && current != stale {
		return nil
	}
	if current == "" && stale != "" {
		// cleared by a refresh that failed while this request waited
		return ErrSessionExpired
	}

	if err := c.refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Info("Session refresh failed, clearing credentials", zap.Error(err))
		c.expire()
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return fmt.Errorf("no refresh token stored")
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("failed to encode refresh request: %w", err)
	}

	var resp tokenResponse
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", payload, "", &resp); err != nil {
		return err
	}
	if resp.Data.AccessToken == "" || resp.Data.RefreshToken == "" {
		return fmt.Errorf("refresh response carried no tokens")
	}

	if err := c.session.SetTokenPair(resp.Data.AccessToken, resp.Data.RefreshToken); err != nil {
		return fmt.Errorf("failed to store refreshed tokens: %w", err)
	}
	return nil
}

func (c *Client) expire() {
	if err := c.session.Clear(); err != nil {
		c.logger.Warn("Failed to clear session", zap.Error(err))
	}
	if c.loginRedirect != nil {
		c.loginRedirect()
	}
}

// send performs a single HTTP exchange
func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error
		apiErr.Message = envelope.Message
	}
	return apiErr
}
