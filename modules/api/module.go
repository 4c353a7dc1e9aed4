// Package api exposes the REST surface of the application over Fiber.
package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/todo-app/modules/auth"
	"github.com/example/todo-app/modules/history"
	"github.com/example/todo-app/modules/storage"
	"github.com/example/todo-app/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// ServiceName identifies this backend in health responses.
const ServiceName = "todo-app-backend"

// Module is the HTTP API module.
type Module struct {
	port       int
	app        *fiber.App
	storage    *storage.Module
	taskMod    *task.Module
	historyMod *history.Module
	authPort   auth.Port
	tasks      *task.Service
	history    *history.Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API module listening on the given port.
// The storage, task and history modules must be registered before this
// one so their services exist by the time the server starts.
func NewModule(port int, storage *storage.Module, taskMod *task.Module, historyMod *history.Module) *Module {
	return &Module{
		port:       port,
		storage:    storage,
		taskMod:    taskMod,
		historyMod: historyMod,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authPort = auth.NewAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	m.tasks = m.taskMod.Service()
	m.history = m.historyMod.Service()
	if m.tasks == nil || m.history == nil {
		return fmt.Errorf("task and history modules not started")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(string) bool { return true },
		AllowCredentials: true,
	}))

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(fmt.Sprintf(":%d", m.port)); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%d", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// App returns the Fiber application, for tests.
func (m *Module) App() *fiber.App {
	return m.app
}

// setupRoutes configures all API routes.
func (m *Module) setupRoutes() {
	handlers := NewHandlers(m.tasks, m.history)
	authHandlers := NewAuthHandlers(m.authPort)

	v1 := m.app.Group("/api/v1")

	// Public routes
	v1.Get("/health", m.healthHandler)
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/signup", authHandlers.Signup)
	authRoutes.Post("/login", authHandlers.Login)
	authRoutes.Post("/logout", authHandlers.Logout)

	// Protected routes (require a valid session cookie)
	protected := v1.Group("")
	protected.Use(SessionMiddleware(m.authPort))
	protected.Get("/tasks", handlers.ListTasks)
	protected.Post("/tasks", handlers.CreateTask)
	protected.Get("/tasks/:id", handlers.GetTask)
	protected.Put("/tasks/:id", handlers.UpdateTask)
	protected.Delete("/tasks/:id", handlers.DeleteTask)
	protected.Patch("/tasks/:id/complete", handlers.CompleteTask)
	protected.Patch("/tasks/:id/incomplete", handlers.IncompleteTask)
	protected.Get("/history", handlers.GetHistory)
	protected.Get("/stats/weekly", handlers.GetWeeklyStats)
}

// healthHandler reports healthy when the database answers a ping,
// degraded otherwise. It never returns an error status: clients treat
// an unreachable server as down on their own.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	status := "healthy"
	if err := m.storage.Ping(); err != nil {
		log.Printf("[api] Health check: database unavailable: %v", err)
		status = "degraded"
	}

	return success(c, fiber.StatusOK, HealthData{
		Status:  status,
		Service: ServiceName,
	}, "")
}

// errorHandler handles Fiber errors that escape the handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return fail(c, code, message)
}
