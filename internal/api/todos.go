package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListTodos fetches one page of todos. Status and search filters travel as
// JSON-encoded query params, matching the backend contract.
func (c *Client) ListTodos(ctx context.Context, q ListQuery) (*TodoPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Rows > 0 {
		params.Set("rows", strconv.Itoa(q.Rows))
	}
	if q.OrderKey != "" {
		params.Set("orderKey", q.OrderKey)
	}
	if q.OrderRule != "" {
		params.Set("orderRule", q.OrderRule)
	}
	if q.IsDone != nil {
		f, _ := json.Marshal(map[string]bool{"isDone": *q.IsDone})
		params.Set("filters", string(f))
	}
	if q.Search != "" {
		sf, _ := json.Marshal(map[string]string{"item": q.Search})
		params.Set("searchFilters", string(sf))
	}

	var page TodoPage
	if err := c.do(ctx, http.MethodGet, "/todos?"+params.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateTodo adds a new item for the current user.
func (c *Client) CreateTodo(ctx context.Context, item string) error {
	return c.do(ctx, http.MethodPost, "/todos", map[string]string{"item": item}, nil)
}

// MarkTodo sets the done flag of a todo through the mark endpoint.
func (c *Client) MarkTodo(ctx context.Context, id string, done bool) error {
	action := "UNDONE"
	if done {
		action = "DONE"
	}
	body := map[string]string{"action": action}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/todos/%s/mark", id), body, nil)
}

// DeleteTodo removes a single todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+id, nil, nil)
}
