package client

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
)

// emailPattern is the local@domain.tld check applied before any request
// is issued.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Signup registers a new account. Email syntax and minimum password
// length are validated locally; no request is issued when they fail.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	body := map[string]string{"email": email, "password": password}
	_, err := execute[any](c, c.http.R().SetContext(ctx).SetBody(body), http.MethodPost, "/auth/signup")
	return err
}

// Login exchanges credentials for a session. The backend sets the
// session cookie on the response; the transport's cookie jar carries it
// on every later request. The token is also captured so callers can
// persist it across processes.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	body := map[string]string{"email": email, "password": password}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Execute(http.MethodPost, "/auth/login")
	if err != nil {
		return nil, err
	}

	var env ApiResponse[LoginResult]
	if len(resp.Body()) > 0 {
		if jsonErr := json.Unmarshal(resp.Body(), &env); jsonErr != nil && !resp.IsError() {
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

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			c.setSessionToken(cookie.Value)
		}
	}

	return &env.Data, nil
}

// Logout clears the session on the backend and drops the captured token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := execute[any](c, c.http.R().SetContext(ctx), http.MethodPost, "/auth/logout")
	if err != nil {
		return err
	}
	c.setSessionToken("")
	return nil
}
