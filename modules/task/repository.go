package task

import (
	"errors"
	"fmt"

	domain "github.com/example/todo-app/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID regardless of owner.
// Ownership checks belong to the service layer so it can distinguish
// not-found from forbidden.
func (r *Repository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindAllByUser retrieves all tasks owned by a user,
// incomplete first, newest first within each group.
func (r *Repository) FindAllByUser(userID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.
		Where("user_id = ?", userID).
		Order("is_completed asc").
		Order("created_at desc").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Save persists changes to an existing task.
func (r *Repository) Save(task *domain.Task) error {
	result := r.db.Model(&domain.Task{}).
		Where("id = ?", task.ID).
		Select("Title", "Description", "IsCompleted", "UpdatedAt", "CompletedAt").
		Updates(task)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID. History rows are kept so the audit
// trail survives the delete.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LogHistory appends an audit record for an action on a task.
func (r *Repository) LogHistory(entry *domain.History) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to log history: %w", err)
	}
	return nil
}
