package auth

import "time"

// SignupRequest is the request for the signup service.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is the response after creating an account.
type SignupResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the request for the login service.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token issued on successful login.
type LoginResponse struct {
	SessionToken string `json:"session_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ValidateSessionRequest is the request for the validate-session service.
type ValidateSessionRequest struct {
	Token string `json:"token"`
}

// ValidateSessionResponse reports whether a session token is valid.
type ValidateSessionResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}
