package task

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/todo-app/domain/task"
	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a task title is empty or blank.
	ErrTitleRequired = errors.New("title: must be 1-255 characters")
	// ErrDescriptionTooLong is returned when a description exceeds the limit.
	ErrDescriptionTooLong = errors.New("description: must be 0-5000 characters")
	// ErrNoFields is returned when an update carries no fields at all.
	ErrNoFields = errors.New("at least one field (title or description) must be provided")
	// ErrForbidden is returned when a task belongs to a different user.
	ErrForbidden = errors.New("access forbidden: you do not have permission to access this task")
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 5000
)

// Invalidator is notified whenever task state changes, so derived data
// (cached statistics) can be dropped. A nil Invalidator is a no-op.
type Invalidator interface {
	InvalidateStats(ctx context.Context, userID string)
}

// Service handles task business logic and history logging.
type Service struct {
	repo        *Repository
	invalidator Invalidator
}

// NewService creates a new task service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SetInvalidator wires the cache invalidation hook.
func (s *Service) SetInvalidator(inv Invalidator) {
	s.invalidator = inv
}

// Create creates a new task for the user and logs a CREATED entry.
func (s *Service) Create(ctx context.Context, userID, title string, description *string) (*domain.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	s.logHistory(task, domain.ActionCreated, "Task created")
	s.invalidate(ctx, userID)
	return task, nil
}

// List returns all tasks owned by the user, incomplete first.
func (s *Service) List(_ context.Context, userID string) ([]*domain.Task, error) {
	return s.repo.FindAllByUser(userID)
}

// Get returns a single task, verifying ownership.
func (s *Service) Get(_ context.Context, userID, taskID string) (*domain.Task, error) {
	return s.getOwned(userID, taskID)
}

// Update changes the title and/or description of a task and logs an
// UPDATED entry describing what changed.
func (s *Service) Update(ctx context.Context, userID, taskID string, title, description *string) (*domain.Task, error) {
	if title == nil && description == nil {
		return nil, ErrNoFields
	}
	if title != nil {
		if err := validateTitle(*title); err != nil {
			return nil, err
		}
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	task, err := s.getOwned(userID, taskID)
	if err != nil {
		return nil, err
	}

	var changes []string
	if title != nil && *title != task.Title {
		changes = append(changes, fmt.Sprintf("title: '%s' -> '%s'", task.Title, *title))
	}
	if description != nil {
		changes = append(changes, "description updated")
	}

	if title != nil {
		task.Title = *title
	}
	if description != nil {
		task.Description = description
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	s.logHistory(task, domain.ActionUpdated, strings.Join(changes, "; "))
	s.invalidate(ctx, userID)
	return task, nil
}

// Delete removes a task, logging a DELETED entry first so the audit
// record captures the title of the task that is about to disappear.
func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.getOwned(userID, taskID)
	if err != nil {
		return err
	}

	s.logHistory(task, domain.ActionDeleted, "Task deleted: "+task.Title)

	if err := s.repo.Delete(task.ID); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

// Complete marks a task as completed and stamps completed_at.
func (s *Service) Complete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.setCompletion(ctx, userID, taskID, true)
}

// Incomplete marks a task as not completed and clears completed_at.
func (s *Service) Incomplete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.setCompletion(ctx, userID, taskID, false)
}

func (s *Service) setCompletion(ctx context.Context, userID, taskID string, completed bool) (*domain.Task, error) {
	task, err := s.getOwned(userID, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.IsCompleted = completed
	task.UpdatedAt = now
	if completed {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	if completed {
		s.logHistory(task, domain.ActionCompleted, "Task marked as completed")
	} else {
		s.logHistory(task, domain.ActionIncompleted, "Task marked as incomplete")
	}
	s.invalidate(ctx, userID)
	return task, nil
}

// getOwned fetches a task and verifies the caller owns it.
func (s *Service) getOwned(userID, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return task, nil
}

// logHistory appends an audit record. Failures are logged but never
// surfaced: the primary operation has already succeeded.
func (s *Service) logHistory(task *domain.Task, action domain.ActionType, description string) {
	entry := &domain.History{
		HistoryID:   uuid.New().String(),
		TaskID:      task.ID,
		UserID:      task.UserID,
		ActionType:  action,
		Description: &description,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.repo.LogHistory(entry); err != nil {
		log.Printf("[task] Warning: failed to log %s history for task %s: %v", action, task.ID, err)
	}
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateStats(ctx, userID)
	}
}

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || len(title) > maxTitleLen {
		return ErrTitleRequired
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && len(*description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}
