package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionManager_IssueValidate(t *testing.T) {
	mgr := NewSessionManager(DefaultSessionConfig())

	token, err := mgr.Issue("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("user id = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "user@example.com" {
		t.Errorf("email = %q, want %q", claims.Email, "user@example.com")
	}
}

func TestSessionManager_Expired(t *testing.T) {
	config := DefaultSessionConfig()
	config.Duration = -time.Minute
	mgr := NewSessionManager(config)

	token, err := mgr.Issue("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := mgr.Validate(token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Validate() error = %v, want ErrSessionExpired", err)
	}
}

func TestSessionManager_WrongSecret(t *testing.T) {
	issuer := NewSessionManager(SessionConfig{
		SecretKey: "secret-a",
		Duration:  time.Hour,
		Issuer:    "todo-app-backend",
	})
	validator := NewSessionManager(SessionConfig{
		SecretKey: "secret-b",
		Duration:  time.Hour,
		Issuer:    "todo-app-backend",
	})

	token, err := issuer.Issue("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := validator.Validate(token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Validate() error = %v, want ErrInvalidSession", err)
	}
}
