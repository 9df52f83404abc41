package widgets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"zoe/internal/api"
	"zoe/internal/voice"
	"zoe/internal/widget"
)

// trackingSource wraps a ChanSource and remembers the streams it opened, so
// tests can assert every track ended after destroy.
type trackingSource struct {
	inner voice.ChanSource

	mu      sync.Mutex
	streams []*voice.MediaStream
}

func (s *trackingSource) Open(ctx context.Context) (*voice.MediaStream, <-chan []byte, error) {
	stream, chunks, err := s.inner.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	s.streams = append(s.streams, stream)
	s.mu.Unlock()
	return stream, chunks, nil
}

func (s *trackingSource) opened() []*voice.MediaStream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*voice.MediaStream(nil), s.streams...)
}

func voiceServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/voice/start-conversation":
			json.NewEncoder(w).Encode(map[string]string{"conversationId": "conv-1"})
		case "/api/voice/chat":
			json.NewEncoder(w).Encode(map[string]string{"reply": reply})
		case "/api/whisper/transcribe":
			json.NewEncoder(w).Encode(map[string]string{"text": "turn off the lights"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOrb(t *testing.T, srv *httptest.Server, src voice.Source) *Orb {
	t.Helper()
	deps := Deps{VoiceSource: src}
	if srv != nil {
		deps.API = api.NewClient(srv.URL, stubSession{})
	}
	w, err := NewOrb(deps)(widget.Options{})
	if err != nil {
		t.Fatalf("orb factory: %v", err)
	}
	orb := w.(*Orb)
	if err := orb.Init(context.Background(), &stubSurface{w: 30, h: 8}, widget.Options{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	return orb
}

func TestOrbToggleChat(t *testing.T) {
	orb := newTestOrb(t, nil, nil)
	defer orb.Destroy()

	if got := orb.State(); got != OrbIdle {
		t.Fatalf("state = %q, want idle", got)
	}
	orb.ToggleChat()
	if got := orb.State(); got != OrbChatOpen {
		t.Fatalf("state = %q, want chat", got)
	}
	orb.ToggleChat()
	if got := orb.State(); got != OrbIdle {
		t.Fatalf("state = %q, want idle again", got)
	}
}

func TestOrbNoCaptureSurfacesChatMessage(t *testing.T) {
	orb := newTestOrb(t, nil, nil)
	defer orb.Destroy()

	orb.ToggleChat()
	orb.StartListening(context.Background())

	if got := orb.State(); got != OrbChatOpen {
		t.Fatalf("state = %q, want chat (no capture must not transition)", got)
	}
	msgs := orb.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "isn't available") {
		t.Fatalf("expected a capability chat message, got %+v", msgs)
	}
}

func TestOrbListeningIgnoredWhileIdle(t *testing.T) {
	src := &trackingSource{inner: voice.ChanSource{Chunks: make(chan []byte, 1)}}
	orb := newTestOrb(t, voiceServer(t, "ok"), src)
	defer orb.Destroy()

	orb.StartListening(context.Background())
	if got := len(src.opened()); got != 0 {
		t.Fatalf("idle orb opened %d capture sessions", got)
	}
}

func TestOrbDestroyMidRecordingEndsAllTracks(t *testing.T) {
	src := &trackingSource{inner: voice.ChanSource{Chunks: make(chan []byte, 4)}}
	orb := newTestOrb(t, voiceServer(t, "ok"), src)

	orb.ToggleChat()
	orb.StartListening(context.Background())
	waitFor(t, func() bool { return orb.State() == OrbListening })
	src.inner.Chunks <- []byte{1, 2, 3}

	if err := orb.Destroy(); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	streams := src.opened()
	if len(streams) != 1 {
		t.Fatalf("opened %d streams, want 1", len(streams))
	}
	for _, stream := range streams {
		for _, track := range stream.Tracks() {
			if track.ReadyState() != voice.TrackEnded {
				t.Fatalf("track %q still %q after destroy", track.Kind, track.ReadyState())
			}
		}
	}
}

func TestOrbVoiceTurnRoundTrip(t *testing.T) {
	src := &trackingSource{inner: voice.ChanSource{Chunks: make(chan []byte, 4)}}
	orb := newTestOrb(t, voiceServer(t, "Lights are off."), src)
	defer orb.Destroy()

	orb.ToggleChat()
	orb.StartListening(context.Background())
	waitFor(t, func() bool { return orb.State() == OrbListening })
	if got := orb.TransportName(); got != "http" {
		t.Fatalf("transport = %q, want http against a remote test server", got)
	}

	src.inner.Chunks <- []byte("audio")
	close(src.inner.Chunks) // capture backend signals end of recording

	waitFor(t, func() bool { return orb.State() == OrbChatOpen })
	msgs := orb.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %+v, want transcript + reply", msgs)
	}
	if msgs[0].Role != "user" || msgs[0].Text != "turn off the lights" {
		t.Fatalf("user message = %+v", msgs[0])
	}
	if msgs[1].Role != "zoe" || msgs[1].Text != "Lights are off." {
		t.Fatalf("reply message = %+v", msgs[1])
	}
}

func TestOrbTypedChat(t *testing.T) {
	orb := newTestOrb(t, voiceServer(t, "Hello!"), nil)
	defer orb.Destroy()

	orb.ToggleChat()
	orb.SendText(context.Background(), "hi zoe")

	waitFor(t, func() bool {
		msgs := orb.Messages()
		return len(msgs) == 2 && msgs[1].Role == "zoe"
	})
	if got := orb.State(); got != OrbChatOpen {
		t.Fatalf("state after reply = %q, want chat", got)
	}
}

func TestOrbTypedChatFailureShowsSystemMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	orb := newTestOrb(t, srv, nil)
	defer orb.Destroy()

	orb.ToggleChat()
	orb.SendText(context.Background(), "anyone home?")

	waitFor(t, func() bool {
		msgs := orb.Messages()
		return len(msgs) == 2 && msgs[1].Role == "system"
	})
	if got := orb.State(); got != OrbChatOpen {
		t.Fatalf("state after failure = %q, want chat", got)
	}
}
