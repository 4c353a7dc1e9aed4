package client

import (
	"context"
	"net/http"
	"strconv"
)

// GetHealth reports backend availability. It never returns an error:
// any failure, transport or otherwise, is reported as a down status so
// health checks can be rendered unconditionally.
func (c *Client) GetHealth(ctx context.Context) *HealthStatus {
	env, err := execute[HealthStatus](c, c.http.R().SetContext(ctx), http.MethodGet, "/health")
	if err != nil {
		return &HealthStatus{
			Status:  StatusDown,
			Service: "todo-app-backend",
		}
	}
	return &env.Data
}

// ListTasks returns all tasks, incomplete first.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	env, err := execute[[]Task](c, c.http.R().SetContext(ctx), http.MethodGet, "/tasks")
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetTask returns a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	env, err := execute[Task](c, c.http.R().SetContext(ctx), http.MethodGet, "/tasks/"+id)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// CreateTask creates a task with the given title and optional description.
func (c *Client) CreateTask(ctx context.Context, title string, description *string) (*Task, error) {
	body := map[string]any{"title": title}
	if description != nil {
		body["description"] = *description
	}

	env, err := execute[Task](c, c.http.R().SetContext(ctx).SetBody(body), http.MethodPost, "/tasks")
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// UpdateTask changes the title and/or description of a task. Nil fields
// are left untouched.
func (c *Client) UpdateTask(ctx context.Context, id string, title, description *string) (*Task, error) {
	body := map[string]any{}
	if title != nil {
		body["title"] = *title
	}
	if description != nil {
		body["description"] = *description
	}

	env, err := execute[Task](c, c.http.R().SetContext(ctx).SetBody(body), http.MethodPut, "/tasks/"+id)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, id string) (*Task, error) {
	env, err := execute[Task](c, c.http.R().SetContext(ctx), http.MethodPatch, "/tasks/"+id+"/complete")
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// IncompleteTask marks a task as not completed.
func (c *Client) IncompleteTask(ctx context.Context, id string) (*Task, error) {
	env, err := execute[Task](c, c.http.R().SetContext(ctx), http.MethodPatch, "/tasks/"+id+"/incomplete")
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := execute[any](c, c.http.R().SetContext(ctx), http.MethodDelete, "/tasks/"+id)
	return err
}

// historyPayload is the backend's wire shape for the history listing.
// Its pagination fields differ from the client contract and are renamed
// by GetHistory.
type historyPayload struct {
	Items      []HistoryEntry `json:"items"`
	Pagination struct {
		CurrentPage int   `json:"current_page"`
		PageSize    int   `json:"page_size"`
		TotalCount  int64 `json:"total_count"`
		TotalPages  int   `json:"total_pages"`
		HasNext     bool  `json:"has_next"`
		HasPrev     bool  `json:"has_prev"`
	} `json:"pagination"`
}

// GetHistory returns one page of history entries, translating the
// backend's pagination envelope (current_page, page_size, nested items)
// into the client-side PaginatedResponse shape (page, limit).
func (c *Client) GetHistory(ctx context.Context, q HistoryQuery) (*PaginatedResponse[HistoryEntry], error) {
	req := c.http.R().SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(q.Page)).
		SetQueryParam("limit", strconv.Itoa(q.Limit))
	if q.TaskID != "" {
		req.SetQueryParam("task_id", q.TaskID)
	}
	if q.ActionType != "" {
		req.SetQueryParam("action_type", q.ActionType)
	}

	env, err := execute[historyPayload](c, req, http.MethodGet, "/history")
	if err != nil {
		return nil, err
	}

	p := env.Data.Pagination
	return &PaginatedResponse[HistoryEntry]{
		Success: true,
		Items:   env.Data.Items,
		Pagination: PaginationMeta{
			Page:       p.CurrentPage,
			Limit:      p.PageSize,
			TotalCount: p.TotalCount,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
		Popup: env.Popup,
	}, nil
}

// GetWeeklyStats returns aggregate counters for the current week.
func (c *Client) GetWeeklyStats(ctx context.Context) (*WeeklyStats, error) {
	env, err := execute[WeeklyStats](c, c.http.R().SetContext(ctx), http.MethodGet, "/stats/weekly")
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}
