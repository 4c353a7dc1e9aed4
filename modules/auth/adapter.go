package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/todo-app/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port defines the interface other modules use to access auth functionality.
type Port interface {
	Signup(ctx context.Context, email, password string) (*SignupResponse, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateSession(ctx context.Context, token string) (*domain.Claims, error)
}

// Adapter implements Port using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// Signup creates a new account through the signup service.
func (a *Adapter) Signup(ctx context.Context, email, password string) (*SignupResponse, error) {
	req := SignupRequest{Email: email, Password: password}
	var resp SignupResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"signup",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Login exchanges credentials for a session token through the login service.
func (a *Adapter) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}

// ValidateSession validates a session token through the validate-session service.
func (a *Adapter) ValidateSession(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateSessionRequest{Token: token}
	var resp ValidateSessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-session",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-session request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("session validation failed: %s", resp.Error)
	}

	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}
