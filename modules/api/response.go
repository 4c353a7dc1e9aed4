package api

import (
	"github.com/gofiber/fiber/v2"
)

// Popup codes understood by clients. They select which toast the UI shows.
const (
	PopupTaskCreated    = "TASK_CREATED"
	PopupTaskUpdated    = "TASK_UPDATED"
	PopupTaskDeleted    = "TASK_DELETED"
	PopupTaskCompleted  = "TASK_COMPLETED"
	PopupTaskIncomplete = "TASK_INCOMPLETE"
)

// Envelope is the wrapper carried by every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Popup   string `json:"popup,omitempty"`
	Error   string `json:"error,omitempty"`
}

// success writes a success envelope with the given status code.
func success(c *fiber.Ctx, status int, data any, popup string) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Data:    data,
		Popup:   popup,
	})
}

// fail writes an error envelope with the given status code.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Error:   message,
	})
}
