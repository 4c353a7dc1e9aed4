// Package task implements task CRUD, completion toggling and history logging.
package task

import (
	"context"
	"fmt"
	"log"

	"github.com/example/todo-app/modules/storage"
	"github.com/go-monolith/mono"
)

// Module provides task services backed by the shared storage module.
type Module struct {
	storage *storage.Module
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new task module. The storage module must be
// registered before this one so its database is available on Start.
func NewModule(storage *storage.Module) *Module {
	return &Module{storage: storage}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// Start builds the repository and service on top of the shared database.
func (m *Module) Start(_ context.Context) error {
	db := m.storage.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}

	m.service = NewService(NewRepository(db))

	log.Println("[task] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// Service returns the task service. Nil until Start has run.
func (m *Module) Service() *Service {
	return m.service
}
