package api

import "context"

type JournalEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"` // markdown
	Mood      string `json:"mood,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// JournalEntries fetches the most recent journal entries, newest first.
func (c *Client) JournalEntries(ctx context.Context, limit int) ([]JournalEntry, error) {
	var resp struct {
		Entries []JournalEntry `json:"entries"`
	}
	if err := c.doJSON(ctx, "GET", "/api/journal/entries", nil, nil, &resp); err != nil {
		return nil, err
	}
	if limit > 0 && len(resp.Entries) > limit {
		resp.Entries = resp.Entries[:limit]
	}
	return resp.Entries, nil
}
