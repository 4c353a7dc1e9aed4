package history

import (
	"time"

	domain "github.com/example/todo-app/domain/task"
)

// Query describes one page of the history listing.
// Offset, TaskID and ActionType are optional filters; when Offset is
// set it overrides Page.
type Query struct {
	Page       int
	Limit      int
	Offset     *int
	TaskID     string
	ActionType string
}

// Pagination describes the position of a page within the full listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Page is one page of history entries plus its pagination metadata.
type Page struct {
	Items      []*domain.History `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// WeeklyStats aggregates task counters for the current week and overall.
type WeeklyStats struct {
	TasksCreatedThisWeek   int64     `json:"tasks_created_this_week"`
	TasksCompletedThisWeek int64     `json:"tasks_completed_this_week"`
	TotalCompleted         int64     `json:"total_completed"`
	TotalIncomplete        int64     `json:"total_incomplete"`
	WeekStart              time.Time `json:"week_start"`
	WeekEnd                time.Time `json:"week_end"`
	TotalTasks             int64     `json:"total_tasks"`
}
