// Package history answers audit-trail queries and weekly statistics.
package history

import (
	"context"
	"fmt"
	"log"

	"github.com/example/todo-app/modules/storage"
	"github.com/go-monolith/mono"
)

// Module provides history and stats services backed by the shared storage.
type Module struct {
	storage *storage.Module
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new history module.
func NewModule(storage *storage.Module) *Module {
	return &Module{storage: storage}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "history"
}

// Start builds the repository and service on top of the shared database.
func (m *Module) Start(_ context.Context) error {
	db := m.storage.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}

	m.service = NewService(NewRepository(db))

	log.Println("[history] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[history] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// Service returns the history service. Nil until Start has run.
func (m *Module) Service() *Service {
	return m.service
}
