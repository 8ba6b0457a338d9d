// Package transport is the single choke point for outgoing API calls. It
// attaches the bearer token, refuses to send a known-expired one, and ends
// the session on an authorization rejection — the monitor and the request
// flow both rely on it for the "never send a known-bad token" property.
package transport

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
	"time"

	"github.com/google/uuid"

	"github.com/posguard/licadmin/internal/session"
)

var (
	// ErrSessionExpired is returned when the cached expiry shows the token
	// is no longer usable; the request is aborted before it is sent.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnauthorized is returned on a 401 response; the session has
	// already been ended when the caller sees it.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAuthenticated is returned when an operation needs a session and
	// none exists.
	ErrNotAuthenticated = errors.New("not logged in")
)

// genericFailure stands in when the server omits an error message.
const genericFailure = "something went wrong, please try again"

const maxResponseBytes = 8 << 20

// APIError is a failed call the server responded to.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// envelope is the response wrapper every endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	base    *url.URL
	http    *http.Client
	session *session.Store
	logger  *slog.Logger
	now     func() time.Time
}

func New(baseURL string, sess *session.Store, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		session: sess,
		logger:  logger,
		now:     time.Now,
	}, nil
}

type requestOptions struct {
	skipAuth       bool
	idempotencyKey string
}

type RequestOption func(*requestOptions)

// WithoutAuth marks the request as a login-family operation: any bearer
// token is stripped so a stale credential never rides along on a login.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) { o.skipAuth = true }
}

// WithIdempotencyKey sets the Idempotency-Key header so a retried write is
// applied at most once server-side.
func WithIdempotencyKey(key string) RequestOption {
	return func(o *requestOptions) { o.idempotencyKey = key }
}

// NewIdempotencyKey generates a fresh idempotency key.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// Do sends one API request. body (if non-nil) is JSON-encoded; the response
// envelope is unwrapped and its data decoded into out (if non-nil).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...RequestOption) error {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ro.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", ro.idempotencyKey)
	}

	if !ro.skipAuth {
		if tok, ok := c.session.Token(); ok {
			// Preflight on the cached expiry; the token is not re-decoded
			// per call.
			if c.session.Expired(c.now()) {
				c.logger.Info("aborting request, token expired", "method", method, "path", path)
				c.session.Logout()
				return ErrSessionExpired
			}
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("authorization rejected, ending session", "method", method, "path", path)
		c.session.Logout()
		return ErrUnauthorized
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if len(data) == 0 && resp.StatusCode < 400 {
		return nil
	}

	var env envelope
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			if resp.StatusCode >= 400 {
				return &APIError{Status: resp.StatusCode, Message: genericFailure}
			}
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = genericFailure
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: decode payload: %w", method, path, err)
		}
	}
	return nil
}
