package api

import (
	"log"
	"strings"
	"time"

	"github.com/example/todo-app/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// AuthHandlers contains the HTTP handlers for signup, login and logout.
type AuthHandlers struct {
	auth auth.Port
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(authPort auth.Port) *AuthHandlers {
	return &AuthHandlers{auth: authPort}
}

// Signup handles POST /auth/signup.
func (h *AuthHandlers) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	created, err := h.auth.Signup(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}

	return success(c, fiber.StatusCreated, created, "")
}

// Login handles POST /auth/login. On success the session token is set
// as an HttpOnly cookie; the browser carries it on subsequent requests.
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	resp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    resp.SessionToken,
		Path:     "/",
		MaxAge:   int(resp.ExpiresIn),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return success(c, fiber.StatusOK, fiber.Map{
		"user_id": resp.UserID,
		"email":   resp.Email,
	}, "")
}

// Logout handles POST /auth/logout by expiring the session cookie.
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return success(c, fiber.StatusOK, nil, "")
}

// authError maps auth service errors to HTTP responses. Auth calls cross
// the service container, so errors arrive flattened to strings and are
// matched by message.
func (h *AuthHandlers) authError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	case strings.Contains(errStr, "already exists"):
		return fail(c, fiber.StatusConflict, "User with this email already exists")
	case strings.Contains(errStr, "invalid email format"):
		return fail(c, fiber.StatusBadRequest, "Invalid email format")
	case strings.Contains(errStr, "password must be at least"):
		return fail(c, fiber.StatusBadRequest, "Password must be at least 8 characters")
	case strings.Contains(errStr, "password must be at most"):
		return fail(c, fiber.StatusBadRequest, "Password must be at most 72 characters")
	default:
		log.Printf("[api] Internal error: %v", err)
		return fail(c, fiber.StatusInternalServerError, "An internal error occurred")
	}
}
