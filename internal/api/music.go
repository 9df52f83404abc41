package api

import "context"

type Playback struct {
	Playing  bool    `json:"playing"`
	Track    string  `json:"track"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album,omitempty"`
	Position float64 `json:"position"` // seconds
	Duration float64 `json:"duration"` // seconds
	Volume   int     `json:"volume"`
}

// MusicStatus fetches current playback state.
func (c *Client) MusicStatus(ctx context.Context) (*Playback, error) {
	var p Playback
	if err := c.doJSON(ctx, "GET", "/api/music/status", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) MusicPlay(ctx context.Context) error {
	return c.doJSON(ctx, "POST", "/api/music/play", nil, nil, nil)
}

func (c *Client) MusicPause(ctx context.Context) error {
	return c.doJSON(ctx, "POST", "/api/music/pause", nil, nil, nil)
}

func (c *Client) MusicNext(ctx context.Context) error {
	return c.doJSON(ctx, "POST", "/api/music/next", nil, nil, nil)
}
