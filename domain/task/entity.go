package task

import (
	"time"
)

// ActionType identifies the kind of operation recorded in task history.
type ActionType string

const (
	ActionCreated     ActionType = "CREATED"
	ActionUpdated     ActionType = "UPDATED"
	ActionDeleted     ActionType = "DELETED"
	ActionCompleted   ActionType = "COMPLETED"
	ActionIncompleted ActionType = "INCOMPLETED"
)

// Valid reports whether the action type is one of the known values.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionCompleted, ActionIncompleted:
		return true
	}
	return false
}

// Task represents a to-do item owned by a user.
// completed_at is set if and only if is_completed is true.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	UserID      string     `gorm:"index;not null;type:text" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"size:5000" json:"description"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// History is an append-only audit record of one action performed on a task.
// Records outlive the task they describe so the audit trail survives deletes.
type History struct {
	HistoryID   string     `gorm:"primaryKey;type:text" json:"history_id"`
	TaskID      string     `gorm:"index;not null;type:text" json:"task_id"`
	UserID      string     `gorm:"index;not null;type:text" json:"-"`
	ActionType  ActionType `gorm:"size:16;not null" json:"action_type"`
	Description *string    `gorm:"size:5000" json:"description"`
	Timestamp   time.Time  `gorm:"index;not null" json:"timestamp"`
}

// TableName returns the table name for the History entity.
func (History) TableName() string {
	return "task_history"
}
