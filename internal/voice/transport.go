package voice

import (
	"context"
	"strings"

	"zoe/internal/api"
)

// Transport turns a stream of captured audio chunks into a transcript. The
// two implementations are mutually exclusive per orb instance: exactly one is
// chosen when listening starts, and the orb never runs both.
type Transport interface {
	Name() string

	// Run consumes chunks until the channel closes or ctx ends, then returns
	// the final transcript.
	Run(ctx context.Context, chunks <-chan []byte) (string, error)
}

// Select picks the transport for this session. Local backends with room
// credentials get the persistent realtime room; everything else uses discrete
// HTTP chunk upload.
func Select(client *api.Client, sess *api.VoiceSession) Transport {
	if sess != nil && strings.TrimSpace(sess.RoomURL) != "" && LocalBackend(client.BaseURL()) {
		return NewRoomTransport(sess.RoomURL, sess.RoomToken)
	}
	return NewHTTPTransport(client)
}

// HTTPTransport uploads the recorded audio to the backend's whisper endpoint
// in one shot when the recording ends. Suits remote access: no long-lived
// connection to keep alive.
type HTTPTransport struct {
	client *api.Client
}

func NewHTTPTransport(client *api.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Name() string { return "http" }

func (t *HTTPTransport) Run(ctx context.Context, chunks <-chan []byte) (string, error) {
	var buf []byte
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				if len(buf) == 0 {
					return "", nil
				}
				tr, err := t.client.Transcribe(ctx, buf, "audio/wav")
				if err != nil {
					return "", err
				}
				return tr.Text, nil
			}
			buf = append(buf, chunk...)
		}
	}
}
