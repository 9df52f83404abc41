package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// RoomTransport streams audio chunks into a persistent realtime room over a
// websocket and collects incremental transcript frames back. Preferred when
// the backend is on the local network: the connection is cheap to hold and
// latency stays low enough for a conversation.
type RoomTransport struct {
	roomURL string
	token   string

	dial func(ctx context.Context, u string, h http.Header) (*websocket.Conn, error)
}

type roomFrame struct {
	Type string `json:"type"` // "transcript" | "final" | "error"
	Text string `json:"text,omitempty"`
}

func NewRoomTransport(roomURL, token string) *RoomTransport {
	return &RoomTransport{
		roomURL: strings.TrimSpace(roomURL),
		token:   strings.TrimSpace(token),
		dial: func(ctx context.Context, u string, h http.Header) (*websocket.Conn, error) {
			c, _, err := websocket.DefaultDialer.DialContext(ctx, u, h)
			return c, err
		},
	}
}

func (t *RoomTransport) Name() string { return "room" }

func (t *RoomTransport) Run(ctx context.Context, chunks <-chan []byte) (string, error) {
	hdr := http.Header{}
	if t.token != "" {
		hdr.Set("Authorization", "Bearer "+t.token)
	}
	conn, err := t.dial(ctx, t.roomURL, hdr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	// Writer: pump chunks into the room until the recording ends, then tell
	// the room we are done so it can flush the final transcript.
	writeErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				writeErr <- ctx.Err()
				return
			case chunk, ok := <-chunks:
				if !ok {
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					writeErr <- conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"end"}`))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// Reader: accumulate incremental transcript frames until the room says
	// final (or the connection drops, in which case we keep what we have).
	var parts []string
	for {
		select {
		case <-ctx.Done():
			return strings.Join(parts, ""), ctx.Err()
		default:
		}
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Surface a writer failure only when we have nothing at all;
			// the writer may still be pumping, so never block on it here.
			select {
			case werr := <-writeErr:
				if werr != nil && len(parts) == 0 {
					return "", werr
				}
			default:
			}
			return strings.Join(parts, ""), nil
		}
		var f roomFrame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		switch f.Type {
		case "transcript":
			parts = append(parts, f.Text)
		case "final":
			if f.Text != "" {
				return f.Text, nil
			}
			return strings.Join(parts, ""), nil
		}
	}
}
