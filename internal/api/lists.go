package api

import (
	"context"
	"fmt"
	"net/url"

	"zoe/internal/list"
)

type listResponse struct {
	Items []list.Item `json:"items"`
}

// GetList fetches the active items of a named list ("shopping", "personal",
// "bucket", "tasks_today", ...).
func (c *Client) GetList(ctx context.Context, listType string) ([]list.Item, error) {
	var resp listResponse
	if err := c.doJSON(ctx, "GET", "/api/lists/"+url.PathEscape(listType), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddItem persists a new item. The widget has already rendered it
// optimistically; callers treat failure as best-effort.
func (c *Client) AddItem(ctx context.Context, listType string, it list.Item) error {
	return c.doJSON(ctx, "POST", "/api/lists/"+url.PathEscape(listType)+"/items", nil, it, nil)
}

// UpdateItem persists item mutations (toggle, text edit, sub-items).
func (c *Client) UpdateItem(ctx context.Context, listType string, it list.Item) error {
	path := fmt.Sprintf("/api/lists/%s/items/%d", url.PathEscape(listType), it.ID)
	return c.doJSON(ctx, "PUT", path, nil, it, nil)
}

// DeleteItem removes an item from the backend list.
func (c *Client) DeleteItem(ctx context.Context, listType string, id int64) error {
	path := fmt.Sprintf("/api/lists/%s/items/%d", url.PathEscape(listType), id)
	return c.doJSON(ctx, "DELETE", path, nil, nil, nil)
}
