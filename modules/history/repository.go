package history

import (
	"fmt"
	"time"

	domain "github.com/example/todo-app/domain/task"
	"gorm.io/gorm"
)

// Repository provides read access to the history and task tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new history repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindPage returns one page of history entries for a user, newest first,
// along with the total count of entries matching the filters.
func (r *Repository) FindPage(userID string, q Query, offset int) ([]*domain.History, int64, error) {
	query := r.db.Model(&domain.History{}).Where("user_id = ?", userID)

	if q.TaskID != "" {
		query = query.Where("task_id = ?", q.TaskID)
	}
	if q.ActionType != "" {
		query = query.Where("action_type = ?", q.ActionType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	var entries []*domain.History
	err := query.
		Order("timestamp desc").
		Offset(offset).
		Limit(q.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find history: %w", err)
	}

	return entries, total, nil
}

// CountTasks counts a user's tasks, optionally filtered by completion state.
func (r *Repository) CountTasks(userID string, completed *bool) (int64, error) {
	query := r.db.Model(&domain.Task{}).Where("user_id = ?", userID)
	if completed != nil {
		query = query.Where("is_completed = ?", *completed)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// CountTasksCreatedBetween counts tasks created within [start, end].
func (r *Repository) CountTasksCreatedBetween(userID string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("user_id = ?", userID).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count created tasks: %w", err)
	}
	return count, nil
}

// CountTasksCompletedBetween counts tasks completed within [start, end].
func (r *Repository) CountTasksCompletedBetween(userID string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).
		Where("user_id = ?", userID).
		Where("completed_at >= ? AND completed_at <= ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}
