package api

import (
	"github.com/example/todo-app/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookie is the name of the HttpOnly cookie carrying the session token.
	SessionCookie = "session_token"
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// SessionMiddleware creates a middleware that validates the session cookie.
// Requests without a valid session receive a 401 envelope.
func SessionMiddleware(authPort auth.Port) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return fail(c, fiber.StatusUnauthorized, "Authentication required")
		}

		claims, err := authPort.ValidateSession(c.UserContext(), token)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "Session is invalid or expired")
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}
