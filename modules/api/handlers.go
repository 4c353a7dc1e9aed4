package api

import (
	"errors"
	"log"

	userdomain "github.com/example/todo-app/domain/user"
	"github.com/example/todo-app/modules/history"
	"github.com/example/todo-app/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for tasks, history and stats.
type Handlers struct {
	tasks   *task.Service
	history *history.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(tasks *task.Service, history *history.Service) *Handlers {
	return &Handlers{
		tasks:   tasks,
		history: history,
	}
}

// currentUser returns the claims stored by the session middleware.
func currentUser(c *fiber.Ctx) (*userdomain.Claims, error) {
	claims, ok := c.Locals(UserContextKey).(*userdomain.Claims)
	if !ok {
		return nil, errors.New("no user in request context")
	}
	return claims, nil
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.tasks.Create(c.UserContext(), user.UserID, req.Title, req.Description)
	if err != nil {
		return h.taskError(c, err)
	}

	return success(c, fiber.StatusCreated, created, PopupTaskCreated)
}

// ListTasks handles GET /tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	tasks, err := h.tasks.List(c.UserContext(), user.UserID)
	if err != nil {
		return h.taskError(c, err)
	}

	return success(c, fiber.StatusOK, tasks, "")
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	found, err := h.tasks.Get(c.UserContext(), user.UserID, c.Params("id"))
	if err != nil {
		return h.taskError(c, err)
	}

	return success(c, fiber.StatusOK, found, "")
}

// UpdateTask handles PUT /tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	updated, err := h.tasks.Update(c.UserContext(), user.UserID, c.Params("id"), req.Title, req.Description)
	if err != nil {
		return h.taskError(c, err)
	}

	return success(c, fiber.StatusOK, updated, PopupTaskUpdated)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	if err := h.tasks.Delete(c.UserContext(), user.UserID, c.Params("id")); err != nil {
		return h.taskError(c, err)
	}

	return success(c, fiber.StatusOK, nil, PopupTaskDeleted)
}

// CompleteTask handles PATCH /tasks/:id/complete.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	completed, err := h.tasks.Complete(c.UserContext(), user.UserID, c.Params("id"))
	if err != nil {
		return h.taskError(c, err)
	}

	return success(c, fiber.StatusOK, completed, PopupTaskCompleted)
}

// IncompleteTask handles PATCH /tasks/:id/incomplete.
func (h *Handlers) IncompleteTask(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	incompleted, err := h.tasks.Incomplete(c.UserContext(), user.UserID, c.Params("id"))
	if err != nil {
		return h.taskError(c, err)
	}

	return success(c, fiber.StatusOK, incompleted, PopupTaskIncomplete)
}

// GetHistory handles GET /history.
func (h *Handlers) GetHistory(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	q := history.Query{
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
		TaskID:     c.Query("task_id"),
		ActionType: c.Query("action_type"),
	}
	if c.Query("offset") != "" {
		offset := c.QueryInt("offset")
		q.Offset = &offset
	}

	page, err := h.history.GetPage(c.UserContext(), user.UserID, q)
	if err != nil {
		return h.historyError(c, err)
	}

	return success(c, fiber.StatusOK, page, "")
}

// GetWeeklyStats handles GET /stats/weekly.
func (h *Handlers) GetWeeklyStats(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	stats, err := h.history.GetWeeklyStats(c.UserContext(), user.UserID)
	if err != nil {
		return h.historyError(c, err)
	}

	return success(c, fiber.StatusOK, stats, "")
}

// taskError maps task service errors to HTTP responses.
func (h *Handlers) taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Task not found")
	case errors.Is(err, task.ErrForbidden):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, task.ErrTitleRequired),
		errors.Is(err, task.ErrDescriptionTooLong),
		errors.Is(err, task.ErrNoFields):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("[api] Internal error: %v", err)
		return fail(c, fiber.StatusInternalServerError, "An internal error occurred")
	}
}

// historyError maps history service errors to HTTP responses.
func (h *Handlers) historyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, history.ErrInvalidPage),
		errors.Is(err, history.ErrInvalidLimit),
		errors.Is(err, history.ErrInvalidActionType):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("[api] Internal error: %v", err)
		return fail(c, fiber.StatusInternalServerError, "An internal error occurred")
	}
}
