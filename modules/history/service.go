package history

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/todo-app/modules/cache"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidPage is returned when the page number is below 1.
	ErrInvalidPage = errors.New("page must be 1 or greater")
	// ErrInvalidLimit is returned when the page size is out of range.
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
	// ErrInvalidActionType is returned for an unknown action type filter.
	ErrInvalidActionType = errors.New("action_type must be one of CREATED, UPDATED, DELETED, COMPLETED, INCOMPLETED")
)

const (
	maxLimit      = 100
	statsCacheKey = "stats:weekly:"
)

// Service answers history queries and computes weekly statistics.
// Weekly stats are served cache-aside from Redis when a cache is wired;
// singleflight collapses concurrent recomputations on a cache miss.
type Service struct {
	repo    *Repository
	cache   *cache.Cache
	sfGroup singleflight.Group
}

// NewService creates a new history service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SetCache wires the stats cache. A nil cache disables caching.
func (s *Service) SetCache(c *cache.Cache) {
	s.cache = c
}

// GetPage returns one page of history entries for a user.
func (s *Service) GetPage(_ context.Context, userID string, q Query) (*Page, error) {
	if q.Limit < 1 || q.Limit > maxLimit {
		return nil, ErrInvalidLimit
	}
	if q.ActionType != "" && !actionTypeValid(q.ActionType) {
		return nil, ErrInvalidActionType
	}

	var offset, currentPage int
	if q.Offset != nil {
		if *q.Offset < 0 {
			return nil, ErrInvalidPage
		}
		offset = *q.Offset
		currentPage = offset/q.Limit + 1
	} else {
		if q.Page < 1 {
			return nil, ErrInvalidPage
		}
		offset = (q.Page - 1) * q.Limit
		currentPage = q.Page
	}

	entries, total, err := s.repo.FindPage(userID, q, offset)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	return &Page{
		Items: entries,
		Pagination: Pagination{
			CurrentPage: currentPage,
			PageSize:    q.Limit,
			TotalCount:  total,
			TotalPages:  totalPages,
			HasNext:     currentPage < totalPages,
			HasPrev:     currentPage > 1,
		},
	}, nil
}

// GetWeeklyStats returns weekly and overall task statistics for a user.
func (s *Service) GetWeeklyStats(ctx context.Context, userID string) (*WeeklyStats, error) {
	if s.cache != nil {
		var cached WeeklyStats
		found, err := s.cache.Get(ctx, statsCacheKey+userID, &cached)
		if err != nil {
			log.Printf("[history] Cache error for weekly stats: %v", err)
		}
		if found {
			return &cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do("weekly:"+userID, func() (any, error) {
		return s.computeWeeklyStats(userID)
	})
	if err != nil {
		return nil, err
	}
	stats := val.(*WeeklyStats)

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey+userID, stats); err != nil {
			log.Printf("[history] Warning: failed to cache weekly stats: %v", err)
		}
	}

	return stats, nil
}

// InvalidateStats drops the cached weekly statistics for a user. It is
// called by the task service after every mutation.
func (s *Service) InvalidateStats(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey+userID); err != nil {
		log.Printf("[history] Warning: failed to invalidate stats cache: %v", err)
	}
}

func (s *Service) computeWeeklyStats(userID string) (*WeeklyStats, error) {
	weekStart, weekEnd := WeekBoundaries(time.Now().UTC())

	completed := true
	incomplete := false

	totalTasks, err := s.repo.CountTasks(userID, nil)
	if err != nil {
		return nil, err
	}
	totalCompleted, err := s.repo.CountTasks(userID, &completed)
	if err != nil {
		return nil, err
	}
	totalIncomplete, err := s.repo.CountTasks(userID, &incomplete)
	if err != nil {
		return nil, err
	}
	createdThisWeek, err := s.repo.CountTasksCreatedBetween(userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	completedThisWeek, err := s.repo.CountTasksCompletedBetween(userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	return &WeeklyStats{
		TasksCreatedThisWeek:   createdThisWeek,
		TasksCompletedThisWeek: completedThisWeek,
		TotalCompleted:         totalCompleted,
		TotalIncomplete:        totalIncomplete,
		WeekStart:              weekStart,
		WeekEnd:                weekEnd,
		TotalTasks:             totalTasks,
	}, nil
}

// WeekBoundaries returns the start (Monday 00:00:00) and end
// (Sunday 23:59:59) of the week containing t, in UTC.
func WeekBoundaries(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(weekday - 1))
	end := start.AddDate(0, 0, 7).Add(-time.Second)
	return start, end
}

func actionTypeValid(a string) bool {
	switch a {
	case "CREATED", "UPDATED", "DELETED", "COMPLETED", "INCOMPLETED":
		return true
	}
	return false
}
