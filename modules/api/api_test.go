package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	userdomain "github.com/example/todo-app/domain/user"
	"github.com/example/todo-app/modules/auth"
	"github.com/example/todo-app/modules/history"
	"github.com/example/todo-app/modules/storage"
	"github.com/example/todo-app/modules/task"
)

const (
	testToken  = "valid-token"
	testUserID = "user-1"
)

// stubAuthPort implements auth.Port without the service container.
// Errors carry the same flattened messages the container would deliver.
type stubAuthPort struct {
	users map[string]string // email -> password
}

func newStubAuthPort() *stubAuthPort {
	return &stubAuthPort{users: map[string]string{"user@example.com": "password123"}}
}

func (s *stubAuthPort) Signup(_ context.Context, email, password string) (*auth.SignupResponse, error) {
	if _, ok := s.users[email]; ok {
		return nil, errors.New("user with this email already exists")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	s.users[email] = password
	return &auth.SignupResponse{ID: "user-new", Email: email}, nil
}

func (s *stubAuthPort) Login(_ context.Context, email, password string) (*auth.LoginResponse, error) {
	if stored, ok := s.users[email]; !ok || stored != password {
		return nil, errors.New("invalid email or password")
	}
	return &auth.LoginResponse{
		SessionToken: testToken,
		UserID:       testUserID,
		Email:        email,
		ExpiresIn:    86400,
	}, nil
}

func (s *stubAuthPort) ValidateSession(_ context.Context, token string) (*userdomain.Claims, error) {
	if token != testToken {
		return nil, errors.New("session validation failed: invalid session token")
	}
	return &userdomain.Claims{UserID: testUserID, Email: "user@example.com"}, nil
}

// newTestModule starts the storage, task, history and API modules against
// an in-memory database, with the auth dependency stubbed out.
func newTestModule(t *testing.T) *Module {
	t.Helper()
	ctx := context.Background()

	storageMod := storage.NewModule(storage.Config{SQLitePath: ":memory:"})
	if err := storageMod.Start(ctx); err != nil {
		t.Fatalf("failed to start storage module: %v", err)
	}
	t.Cleanup(func() { storageMod.Stop(ctx) })

	taskMod := task.NewModule(storageMod)
	if err := taskMod.Start(ctx); err != nil {
		t.Fatalf("failed to start task module: %v", err)
	}
	historyMod := history.NewModule(storageMod)
	if err := historyMod.Start(ctx); err != nil {
		t.Fatalf("failed to start history module: %v", err)
	}

	m := NewModule(0, storageMod, taskMod, historyMod)
	m.authPort = newStubAuthPort()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("failed to start api module: %v", err)
	}
	t.Cleanup(func() { m.Stop(ctx) })

	return m
}

func doRequest(t *testing.T, m *Module, method, path string, body any, authed bool) (*http.Response, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: testToken})
	}

	resp, err := m.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", raw, err)
	}

	return resp, env
}

func TestSessionMiddleware(t *testing.T) {
	m := newTestModule(t)

	t.Run("missing cookie", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodGet, "/api/v1/tasks", nil, false)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		if env.Success {
			t.Error("expected success=false")
		}
		if env.Error != "Authentication required" {
			t.Errorf("error = %q, want %q", env.Error, "Authentication required")
		}
	})

	t.Run("invalid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
		resp, err := m.App().Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		var env Envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("failed to decode envelope: %v", err)
		}
		if env.Error != "Session is invalid or expired" {
			t.Errorf("error = %q, want %q", env.Error, "Session is invalid or expired")
		}
	})

	t.Run("valid cookie passes through", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodGet, "/api/v1/tasks", nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if !env.Success {
			t.Error("expected success=true")
		}
	})
}

func TestTaskEndpoints(t *testing.T) {
	m := newTestModule(t)

	var taskID string

	t.Run("create", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodPost, "/api/v1/tasks",
			CreateTaskRequest{Title: "Buy milk"}, true)
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("status = %d, want 201", resp.StatusCode)
		}
		if env.Popup != PopupTaskCreated {
			t.Errorf("popup = %q, want %q", env.Popup, PopupTaskCreated)
		}
		data := env.Data.(map[string]any)
		taskID, _ = data["id"].(string)
		if taskID == "" {
			t.Fatal("expected a task id in the response")
		}
		if data["title"] != "Buy milk" {
			t.Errorf("title = %v, want Buy milk", data["title"])
		}
	})

	t.Run("create with blank title", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodPost, "/api/v1/tasks",
			CreateTaskRequest{Title: "   "}, true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		if env.Error == "" {
			t.Error("expected a validation message")
		}
	})

	t.Run("complete", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodPatch,
			fmt.Sprintf("/api/v1/tasks/%s/complete", taskID), nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if env.Popup != PopupTaskCompleted {
			t.Errorf("popup = %q, want %q", env.Popup, PopupTaskCompleted)
		}
		data := env.Data.(map[string]any)
		if data["is_completed"] != true {
			t.Error("expected is_completed=true")
		}
		if data["completed_at"] == nil {
			t.Error("expected completed_at to be set")
		}
	})

	t.Run("incomplete", func(t *testing.T) {
		_, env := doRequest(t, m, http.MethodPatch,
			fmt.Sprintf("/api/v1/tasks/%s/incomplete", taskID), nil, true)
		if env.Popup != PopupTaskIncomplete {
			t.Errorf("popup = %q, want %q", env.Popup, PopupTaskIncomplete)
		}
		data := env.Data.(map[string]any)
		if data["is_completed"] != false {
			t.Error("expected is_completed=false")
		}
	})

	t.Run("update", func(t *testing.T) {
		title := "Buy oat milk"
		resp, env := doRequest(t, m, http.MethodPut, "/api/v1/tasks/"+taskID,
			UpdateTaskRequest{Title: &title}, true)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if env.Popup != PopupTaskUpdated {
			t.Errorf("popup = %q, want %q", env.Popup, PopupTaskUpdated)
		}
	})

	t.Run("update with no fields", func(t *testing.T) {
		resp, _ := doRequest(t, m, http.MethodPut, "/api/v1/tasks/"+taskID,
			UpdateTaskRequest{}, true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("delete", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodDelete, "/api/v1/tasks/"+taskID, nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if env.Popup != PopupTaskDeleted {
			t.Errorf("popup = %q, want %q", env.Popup, PopupTaskDeleted)
		}
		if env.Data != nil {
			t.Errorf("expected no data, got %v", env.Data)
		}
	})

	t.Run("get after delete", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodGet, "/api/v1/tasks/"+taskID, nil, true)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
		if env.Error != "Task not found" {
			t.Errorf("error = %q, want %q", env.Error, "Task not found")
		}
	})
}

func TestHistoryEndpoints(t *testing.T) {
	m := newTestModule(t)

	// A create and a complete leave two history entries behind.
	_, env := doRequest(t, m, http.MethodPost, "/api/v1/tasks",
		CreateTaskRequest{Title: "tracked"}, true)
	taskID := env.Data.(map[string]any)["id"].(string)
	doRequest(t, m, http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%s/complete", taskID), nil, true)

	t.Run("default pagination", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodGet, "/api/v1/history", nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		data := env.Data.(map[string]any)
		pagination := data["pagination"].(map[string]any)
		if pagination["current_page"] != float64(1) {
			t.Errorf("current_page = %v, want 1", pagination["current_page"])
		}
		if pagination["page_size"] != float64(10) {
			t.Errorf("page_size = %v, want 10", pagination["page_size"])
		}
		if pagination["total_count"] != float64(2) {
			t.Errorf("total_count = %v, want 2", pagination["total_count"])
		}
	})

	t.Run("action type filter", func(t *testing.T) {
		_, env := doRequest(t, m, http.MethodGet, "/api/v1/history?action_type=COMPLETED", nil, true)
		data := env.Data.(map[string]any)
		if data["pagination"].(map[string]any)["total_count"] != float64(1) {
			t.Error("expected 1 COMPLETED entry")
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := doRequest(t, m, http.MethodGet, "/api/v1/history?limit=500", nil, true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("weekly stats", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodGet, "/api/v1/stats/weekly", nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		data := env.Data.(map[string]any)
		if data["total_tasks"] != float64(1) {
			t.Errorf("total_tasks = %v, want 1", data["total_tasks"])
		}
		if data["total_completed"] != float64(1) {
			t.Errorf("total_completed = %v, want 1", data["total_completed"])
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	m := newTestModule(t)

	t.Run("signup", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodPost, "/api/v1/auth/signup",
			SignupRequest{Email: "new@example.com", Password: "password123"}, false)
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("status = %d, want 201", resp.StatusCode)
		}
		if !env.Success {
			t.Error("expected success=true")
		}
	})

	t.Run("signup duplicate email", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodPost, "/api/v1/auth/signup",
			SignupRequest{Email: "user@example.com", Password: "password123"}, false)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
		if env.Error != "User with this email already exists" {
			t.Errorf("unexpected error message %q", env.Error)
		}
	})

	t.Run("signup missing fields", func(t *testing.T) {
		resp, _ := doRequest(t, m, http.MethodPost, "/api/v1/auth/signup",
			SignupRequest{Email: "x@example.com"}, false)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("login sets the session cookie", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodPost, "/api/v1/auth/login",
			LoginRequest{Email: "user@example.com", Password: "password123"}, false)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		data := env.Data.(map[string]any)
		if data["user_id"] != testUserID {
			t.Errorf("user_id = %v, want %q", data["user_id"], testUserID)
		}

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == SessionCookie {
				cookie = c
			}
		}
		if cookie == nil {
			t.Fatal("expected a session cookie")
		}
		if cookie.Value != testToken {
			t.Errorf("cookie value = %q, want %q", cookie.Value, testToken)
		}
		if !cookie.HttpOnly {
			t.Error("session cookie must be HttpOnly")
		}
	})

	t.Run("login wrong password", func(t *testing.T) {
		resp, env := doRequest(t, m, http.MethodPost, "/api/v1/auth/login",
			LoginRequest{Email: "user@example.com", Password: "nope12345"}, false)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		if env.Error != "Invalid email or password" {
			t.Errorf("unexpected error message %q", env.Error)
		}
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		resp, _ := doRequest(t, m, http.MethodPost, "/api/v1/auth/logout", nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == SessionCookie {
				cookie = c
			}
		}
		if cookie == nil {
			t.Fatal("expected an expired session cookie")
		}
		if cookie.Value != "" {
			t.Errorf("cookie value = %q, want empty", cookie.Value)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	m := newTestModule(t)

	resp, env := doRequest(t, m, http.MethodGet, "/api/v1/health", nil, false)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !env.Success {
		t.Error("expected success=true")
	}
	data := env.Data.(map[string]any)
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
	if data["service"] != ServiceName {
		t.Errorf("service = %v, want %q", data["service"], ServiceName)
	}
}
