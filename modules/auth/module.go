// Package auth implements accounts and cookie-session authentication.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/example/todo-app/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module provides authentication services.
type Module struct {
	storage  *storage.Module
	sessions SessionConfig
	service  *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new auth module.
func NewModule(storage *storage.Module, sessions SessionConfig) *Module {
	return &Module{
		storage:  storage,
		sessions: sessions,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// Start builds the service on top of the shared database.
func (m *Module) Start(_ context.Context) error {
	db := m.storage.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}

	m.service = NewService(NewUserRepository(db), NewSessionManager(m.sessions))

	log.Println("[auth] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"signup",
		json.Unmarshal,
		json.Marshal,
		m.handleSignup,
	); err != nil {
		return fmt.Errorf("failed to register signup service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-session",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateSession,
	); err != nil {
		return fmt.Errorf("failed to register validate-session service: %w", err)
	}

	log.Printf("[auth] Registered services: signup, login, validate-session")
	return nil
}

// handleSignup handles account creation.
func (m *Module) handleSignup(ctx context.Context, req SignupRequest, _ *mono.Msg) (SignupResponse, error) {
	user, err := m.service.Signup(ctx, req.Email, req.Password)
	if err != nil {
		return SignupResponse{}, err
	}

	return SignupResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// handleLogin handles credential exchange for a session token.
func (m *Module) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	token, user, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		SessionToken: token,
		UserID:       user.ID,
		Email:        user.Email,
		ExpiresIn:    int64(m.service.SessionDuration().Seconds()),
	}, nil
}

// handleValidateSession handles session token validation.
// Validation failures are reported in the response rather than as errors.
func (m *Module) handleValidateSession(ctx context.Context, req ValidateSessionRequest, _ *mono.Msg) (ValidateSessionResponse, error) {
	claims, err := m.service.ValidateSession(ctx, req.Token)
	if err != nil {
		msg := "invalid session"
		if errors.Is(err, ErrSessionExpired) {
			msg = "session expired"
		}
		return ValidateSessionResponse{Valid: false, Error: msg}, nil
	}

	return ValidateSessionResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// Service returns the auth service. Nil until Start has run.
func (m *Module) Service() *Service {
	return m.service
}
