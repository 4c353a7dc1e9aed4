package client

import "time"

// Task is a to-do item as returned by the backend.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// HistoryEntry is an immutable audit record of one action on a task.
// Entries are only ever read by clients, never constructed.
type HistoryEntry struct {
	HistoryID   string    `json:"history_id"`
	TaskID      string    `json:"task_id"`
	ActionType  string    `json:"action_type"`
	Description *string   `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// PaginationMeta describes one page of a paginated listing, in the
// client-side shape: the backend's current_page/page_size are renamed
// to page/limit by GetHistory.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// WeeklyStats aggregates task counters for the current week.
type WeeklyStats struct {
	TasksCreatedThisWeek   int64     `json:"tasks_created_this_week"`
	TasksCompletedThisWeek int64     `json:"tasks_completed_this_week"`
	TotalCompleted         int64     `json:"total_completed"`
	TotalIncomplete        int64     `json:"total_incomplete"`
	WeekStart              time.Time `json:"week_start"`
	WeekEnd                time.Time `json:"week_end"`
	TotalTasks             int64     `json:"total_tasks"`
}

// HealthStatus reports backend availability.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health status values.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusDown     = "down"
)

// ApiResponse is the success/error envelope on every single-resource response.
type ApiResponse[T any] struct {
	Success bool    `json:"success"`
	Data    T       `json:"data"`
	Popup   *string `json:"popup,omitempty"`
	Error   *string `json:"error,omitempty"`
}

// PaginatedResponse is the envelope for list responses.
type PaginatedResponse[T any] struct {
	Success    bool           `json:"success"`
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
	Popup      *string        `json:"popup,omitempty"`
	Error      *string        `json:"error,omitempty"`
}

// HistoryQuery holds the filters for GetHistory. Page and Limit are
// required and must be at least 1; TaskID and ActionType are optional.
type HistoryQuery struct {
	Page       int
	Limit      int
	TaskID     string
	ActionType string
}

// LoginResult identifies the user whose session was established.
type LoginResult struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
