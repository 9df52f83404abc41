package api

import (
	"context"
	"net/url"
	"time"
)

type Event struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"` // RFC3339 or YYYY-MM-DD for all-day
	End      string `json:"end,omitempty"`
	AllDay   bool   `json:"allDay"`
	Location string `json:"location,omitempty"`
	Calendar string `json:"calendar,omitempty"`
}

// StartTime parses the event start, tolerating both timestamp and date-only
// forms. Unparseable starts report ok=false and sort last.
func (e Event) StartTime() (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, e.Start); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", e.Start); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Events fetches calendar events in [from, to).
func (c *Client) Events(ctx context.Context, from, to time.Time) ([]Event, error) {
	q := url.Values{}
	q.Set("start", from.Format("2006-01-02"))
	q.Set("end", to.Format("2006-01-02"))
	var resp struct {
		Events []Event `json:"events"`
	}
	if err := c.doJSON(ctx, "GET", "/api/calendar/events", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}
