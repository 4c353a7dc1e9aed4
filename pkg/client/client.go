// Package client is a typed HTTP client for the todo-app backend.
//
// All operations share one pre-configured transport: base URL, request
// timeout, JSON content type and a cookie jar holding the session
// credential. A response hook watches every response for HTTP 401 and
// runs the session-expiry flow exactly once before the failure reaches
// the caller.
package client

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000/api/v1"
	// DefaultTimeout tolerates slow backend database calls.
	DefaultTimeout = 30 * time.Second

	sessionCookieName     = "session_token"
	sessionExpiredMessage = "Your session has expired. Please log in again."
)

// SessionHandler reacts to an expired session: a user-facing notice
// followed by a redirect to the login page. Both are best-effort side
// effects; the failed call's error always propagates regardless.
type SessionHandler interface {
	Notify(message string)
	RedirectToLogin()
}

// Config configures the transport shared by all operations.
type Config struct {
	// BaseURL is the backend address. Empty selects DefaultBaseURL.
	BaseURL string
	// Timeout applies to every request. Zero selects DefaultTimeout.
	Timeout time.Duration
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithSessionHandler installs the session-expiry handler.
func WithSessionHandler(h SessionHandler) Option {
	return func(c *Client) {
		c.sessionHandler = h
	}
}

// Client is the API and auth client façade. Construct one per
// application and share it; it is safe for concurrent use.
type Client struct {
	http           *resty.Client
	sessionHandler SessionHandler

	mu           sync.Mutex
	sessionToken string
}

// New creates a Client with the given configuration.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	jar, _ := cookiejar.New(nil)

	c := &Client{}
	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetCookieJar(jar).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			// Every 401 runs the expiry flow, whatever the path.
			if resp.StatusCode() == http.StatusUnauthorized {
				c.handleSessionExpired()
				return ErrSessionExpired
			}
			return nil
		})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionToken returns the session token captured by the last
// successful Login, or the one installed with SetSessionToken.
func (c *Client) SessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionToken
}

// SetSessionToken installs a previously saved session token so a new
// process can resume an authenticated session.
func (c *Client) SetSessionToken(token string) {
	c.setSessionToken(token)
	c.http.SetCookie(&http.Cookie{
		Name:  sessionCookieName,
		Value: token,
	})
}

func (c *Client) setSessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionToken = token
}

// handleSessionExpired runs the notice-and-redirect flow. A broken
// handler must not mask the original 401.
func (c *Client) handleSessionExpired() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("client: session handler panicked: %v", r)
		}
	}()

	if c.sessionHandler == nil {
		return
	}
	c.sessionHandler.Notify(sessionExpiredMessage)
	c.sessionHandler.RedirectToLogin()
}

// execute issues one request and unwraps the response envelope.
// Transport failures and 401s come back as errors from resty; any
// other non-2xx or success=false envelope becomes an *APIError.
func execute[T any](c *Client, req *resty.Request, method, path string) (*ApiResponse[T], error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}

	var env ApiResponse[T]
	if len(resp.Body()) > 0 {
		if jsonErr := json.Unmarshal(resp.Body(), &env); jsonErr != nil {
			if resp.IsError() {
				return nil, &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
			}
			return nil, jsonErr
		}
	}

	if resp.IsError() || !env.Success {
		message := ""
		if env.Error != nil {
			message = *env.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: message}
	}

	return &env, nil
}
