package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domain "github.com/example/todo-app/domain/task"
	userdomain "github.com/example/todo-app/domain/user"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&userdomain.User{}, &domain.Task{}, &domain.History{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

const testUser = "user-1"

// seedHistory inserts n history entries with strictly descending ages,
// so entry 0 is the newest.
func seedHistory(t *testing.T, db *gorm.DB, n int) []*domain.History {
	t.Helper()

	now := time.Now().UTC()
	entries := make([]*domain.History, n)
	for i := 0; i < n; i++ {
		desc := fmt.Sprintf("entry %d", i)
		entries[i] = &domain.History{
			HistoryID:   uuid.New().String(),
			TaskID:      "task-1",
			UserID:      testUser,
			ActionType:  domain.ActionCreated,
			Description: &desc,
			Timestamp:   now.Add(-time.Duration(i) * time.Minute),
		}
		if err := db.Create(entries[i]).Error; err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}
	return entries
}

func TestService_GetPage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	seeded := seedHistory(t, db, 25)

	t.Run("first page", func(t *testing.T) {
		page, err := svc.GetPage(ctx, testUser, Query{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if len(page.Items) != 10 {
			t.Errorf("expected 10 items, got %d", len(page.Items))
		}
		p := page.Pagination
		if p.CurrentPage != 1 || p.PageSize != 10 || p.TotalCount != 25 || p.TotalPages != 3 {
			t.Errorf("unexpected pagination: %+v", p)
		}
		if !p.HasNext || p.HasPrev {
			t.Errorf("expected has_next=true has_prev=false, got %+v", p)
		}
		// Newest first.
		if page.Items[0].HistoryID != seeded[0].HistoryID {
			t.Error("expected newest entry first")
		}
	})

	t.Run("last page is partial", func(t *testing.T) {
		page, err := svc.GetPage(ctx, testUser, Query{Page: 3, Limit: 10})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if len(page.Items) != 5 {
			t.Errorf("expected 5 items on last page, got %d", len(page.Items))
		}
		if page.Pagination.HasNext || !page.Pagination.HasPrev {
			t.Errorf("expected has_next=false has_prev=true, got %+v", page.Pagination)
		}
	})

	t.Run("offset overrides page", func(t *testing.T) {
		offset := 20
		page, err := svc.GetPage(ctx, testUser, Query{Page: 1, Limit: 10, Offset: &offset})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if page.Pagination.CurrentPage != 3 {
			t.Errorf("offset 20 with limit 10 should report page 3, got %d", page.Pagination.CurrentPage)
		}
		if len(page.Items) != 5 {
			t.Errorf("expected 5 items, got %d", len(page.Items))
		}
	})

	t.Run("empty result beyond the end", func(t *testing.T) {
		page, err := svc.GetPage(ctx, testUser, Query{Page: 9, Limit: 10})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if len(page.Items) != 0 {
			t.Errorf("expected 0 items, got %d", len(page.Items))
		}
		if page.Pagination.HasNext {
			t.Error("page beyond the end must not report has_next")
		}
	})

	t.Run("other user sees nothing", func(t *testing.T) {
		page, err := svc.GetPage(ctx, "user-2", Query{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if page.Pagination.TotalCount != 0 {
			t.Errorf("expected 0 entries for other user, got %d", page.Pagination.TotalCount)
		}
	})

	t.Run("validation", func(t *testing.T) {
		negOffset := -1
		tests := []struct {
			name string
			q    Query
			want error
		}{
			{"zero limit", Query{Page: 1, Limit: 0}, ErrInvalidLimit},
			{"limit over max", Query{Page: 1, Limit: 101}, ErrInvalidLimit},
			{"zero page", Query{Page: 0, Limit: 10}, ErrInvalidPage},
			{"negative offset", Query{Page: 1, Limit: 10, Offset: &negOffset}, ErrInvalidPage},
			{"unknown action type", Query{Page: 1, Limit: 10, ActionType: "ARCHIVED"}, ErrInvalidActionType},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := svc.GetPage(ctx, testUser, tt.q); !errors.Is(err, tt.want) {
					t.Errorf("GetPage() error = %v, want %v", err, tt.want)
				}
			})
		}
	})
}

func TestService_GetPageFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	now := time.Now().UTC()
	rows := []struct {
		taskID string
		action domain.ActionType
	}{
		{"task-a", domain.ActionCreated},
		{"task-a", domain.ActionCompleted},
		{"task-b", domain.ActionCreated},
	}
	for i, r := range rows {
		entry := &domain.History{
			HistoryID:  uuid.New().String(),
			TaskID:     r.taskID,
			UserID:     testUser,
			ActionType: r.action,
			Timestamp:  now.Add(-time.Duration(i) * time.Minute),
		}
		if err := db.Create(entry).Error; err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	t.Run("by task", func(t *testing.T) {
		page, err := svc.GetPage(ctx, testUser, Query{Page: 1, Limit: 10, TaskID: "task-a"})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if page.Pagination.TotalCount != 2 {
			t.Errorf("expected 2 entries for task-a, got %d", page.Pagination.TotalCount)
		}
	})

	t.Run("by action type", func(t *testing.T) {
		page, err := svc.GetPage(ctx, testUser, Query{Page: 1, Limit: 10, ActionType: "CREATED"})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if page.Pagination.TotalCount != 2 {
			t.Errorf("expected 2 CREATED entries, got %d", page.Pagination.TotalCount)
		}
	})

	t.Run("combined", func(t *testing.T) {
		page, err := svc.GetPage(ctx, testUser, Query{Page: 1, Limit: 10, TaskID: "task-a", ActionType: "COMPLETED"})
		if err != nil {
			t.Fatalf("GetPage() error = %v", err)
		}
		if page.Pagination.TotalCount != 1 {
			t.Errorf("expected 1 entry, got %d", page.Pagination.TotalCount)
		}
	})
}

func TestService_GetWeeklyStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	now := time.Now().UTC()
	weekStart, _ := WeekBoundaries(now)
	lastWeek := weekStart.AddDate(0, 0, -3)

	mkTask := func(created time.Time, completed *time.Time) {
		task := &domain.Task{
			ID:          uuid.New().String(),
			UserID:      testUser,
			Title:       "t",
			IsCompleted: completed != nil,
			CreatedAt:   created,
			UpdatedAt:   created,
			CompletedAt: completed,
		}
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	mkTask(now, &now)      // created and completed this week
	mkTask(now, nil)       // created this week, open
	mkTask(lastWeek, &now) // old task completed this week
	mkTask(lastWeek, nil)  // old open task

	stats, err := svc.GetWeeklyStats(ctx, testUser)
	if err != nil {
		t.Fatalf("GetWeeklyStats() error = %v", err)
	}

	if stats.TotalTasks != 4 {
		t.Errorf("total_tasks = %d, want 4", stats.TotalTasks)
	}
	if stats.TotalCompleted != 2 {
		t.Errorf("total_completed = %d, want 2", stats.TotalCompleted)
	}
	if stats.TotalIncomplete != 2 {
		t.Errorf("total_incomplete = %d, want 2", stats.TotalIncomplete)
	}
	if stats.TotalCompleted+stats.TotalIncomplete != stats.TotalTasks {
		t.Error("completed + incomplete must equal total")
	}
	if stats.TasksCreatedThisWeek != 2 {
		t.Errorf("tasks_created_this_week = %d, want 2", stats.TasksCreatedThisWeek)
	}
	if stats.TasksCompletedThisWeek != 2 {
		t.Errorf("tasks_completed_this_week = %d, want 2", stats.TasksCompletedThisWeek)
	}
	if !stats.WeekStart.Equal(weekStart) {
		t.Errorf("week_start = %v, want %v", stats.WeekStart, weekStart)
	}
}

func TestWeekBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "wednesday",
			in:        time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC),
			wantStart: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "monday start of week",
			in:        time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "sunday belongs to the preceding monday",
			in:        time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "year boundary",
			in:        time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 4, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBoundaries(tt.in)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}
