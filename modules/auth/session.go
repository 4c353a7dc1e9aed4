package auth

import (
	"errors"
	"time"

	domain "github.com/example/todo-app/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSession is returned when a session token is malformed or forged.
	ErrInvalidSession = errors.New("invalid session token")
	// ErrSessionExpired is returned when a session token has expired.
	ErrSessionExpired = errors.New("session has expired")
)

// SessionConfig holds session token configuration.
type SessionConfig struct {
	SecretKey string
	Duration  time.Duration
	Issuer    string
}

// DefaultSessionConfig returns the default session configuration.
// The secret key must be overridden from the environment in production.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SecretKey: "todo-app-dev-secret-change-in-production",
		Duration:  24 * time.Hour,
		Issuer:    "todo-app-backend",
	}
}

// sessionClaims are the JWT claims carried by a session token.
type sessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates signed session tokens. Tokens are
// carried by the browser in an HttpOnly cookie; the server stores no
// session state of its own.
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(config SessionConfig) *SessionManager {
	return &SessionManager{config: config}
}

// Issue creates a new session token for the given user.
func (m *SessionManager) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// Validate checks a session token and returns the identity it carries.
func (m *SessionManager) Validate(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// Duration returns the configured session lifetime.
func (m *SessionManager) Duration() time.Duration {
	return m.config.Duration
}
