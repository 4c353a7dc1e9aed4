// Package storage owns the database connection shared by the other modules.
package storage

import (
	"context"
	"fmt"
	"log"

	taskdomain "github.com/example/todo-app/domain/task"
	userdomain "github.com/example/todo-app/domain/user"
	"github.com/go-monolith/mono"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config selects the database backend. When PostgresDSN is set it takes
// precedence over the SQLite path.
type Config struct {
	SQLitePath  string
	PostgresDSN string
}

// Module opens the database, runs migrations and exposes the handle.
type Module struct {
	cfg Config
	db  *gorm.DB
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new storage module.
func NewModule(cfg Config) *Module {
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "todo_app.db"
	}
	return &Module{cfg: cfg}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storage"
}

// Start opens the database connection and migrates the schema.
func (m *Module) Start(_ context.Context) error {
	dialector, desc := m.dialector()

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&userdomain.User{}, &taskdomain.Task{}, &taskdomain.History{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.db = db
	log.Printf("[storage] Module started (database: %s)", desc)
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[storage] Module stopped")
	return nil
}

// Health returns the health status of the database connection.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if err := m.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// Ping verifies the underlying connection is alive.
func (m *Module) Ping() error {
	if m.db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// DB returns the shared database handle. Nil until Start has run.
func (m *Module) DB() *gorm.DB {
	return m.db
}

func (m *Module) dialector() (gorm.Dialector, string) {
	if m.cfg.PostgresDSN != "" {
		return postgres.Open(m.cfg.PostgresDSN), "postgres"
	}
	return sqlite.Open(m.cfg.SQLitePath), "sqlite:" + m.cfg.SQLitePath
}
