package voice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"zoe/internal/api"
)

func TestLocalBackend(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"http://localhost:8000", true},
		{"http://127.0.0.1:8000", true},
		{"http://zoe.local:8000", true},
		{"http://192.168.1.20:8000", true},
		{"http://10.4.0.9", true},
		{"http://172.16.0.2:8000", true},
		{"https://zoe.example.com", false},
		{"http://8.8.8.8", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := LocalBackend(tc.url); got != tc.want {
			t.Fatalf("LocalBackend(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestTransportSelection(t *testing.T) {
	local := api.NewClient("http://zoe.local:8000", nil)
	remote := api.NewClient("https://zoe.example.com", nil)
	sess := &api.VoiceSession{ConversationID: "c1", RoomURL: "ws://zoe.local:7880/room", RoomToken: "tk"}

	if tr := Select(local, sess); tr.Name() != "room" {
		t.Fatalf("local backend with room creds should pick room, got %s", tr.Name())
	}
	if tr := Select(remote, sess); tr.Name() != "http" {
		t.Fatalf("remote backend should pick http, got %s", tr.Name())
	}
	if tr := Select(local, &api.VoiceSession{ConversationID: "c2"}); tr.Name() != "http" {
		t.Fatalf("missing room creds should pick http, got %s", tr.Name())
	}
}

func TestChanSourceStopEndsTracksAndClosesChunks(t *testing.T) {
	src := &ChanSource{Chunks: make(chan []byte, 4)}
	stream, out, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	src.Chunks <- []byte("aa")
	if got := <-out; string(got) != "aa" {
		t.Fatalf("chunk = %q", got)
	}

	stream.StopAll()
	stream.StopAll() // repeatable

	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("chunk delivered after stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("chunk channel never closed after stop")
	}
	for _, tr := range stream.Tracks() {
		if tr.ReadyState() != TrackEnded {
			t.Fatalf("track %s still %s after stop", tr.Kind, tr.ReadyState())
		}
	}
}

func TestNoSourceFailsFast(t *testing.T) {
	_, _, err := NoSource{}.Open(context.Background())
	if err != ErrNoCapture {
		t.Fatalf("err = %v", err)
	}
}

func TestHTTPTransportUploadsOnEnd(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/whisper/transcribe" {
			t.Errorf("path = %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "add milk to the list"})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(api.NewClient(srv.URL, nil))
	chunks := make(chan []byte, 2)
	chunks <- []byte("chunk1-")
	chunks <- []byte("chunk2")
	close(chunks)

	text, err := tr.Run(context.Background(), chunks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if text != "add milk to the list" {
		t.Fatalf("text = %q", text)
	}
	if gotBody != "chunk1-chunk2" {
		t.Fatalf("uploaded body = %q", gotBody)
	}
}

func TestHTTPTransportEmptyRecording(t *testing.T) {
	tr := NewHTTPTransport(api.NewClient("http://127.0.0.1:1", nil))
	chunks := make(chan []byte)
	close(chunks)
	text, err := tr.Run(context.Background(), chunks)
	if err != nil || text != "" {
		t.Fatalf("empty recording: %q, %v", text, err)
	}
}

func TestRoomTransportCollectsTranscript(t *testing.T) {
	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tk-1" {
			t.Errorf("Authorization = %q", got)
		}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt == websocket.BinaryMessage {
				_ = conn.WriteJSON(roomFrame{Type: "transcript", Text: "piece "})
				continue
			}
			if strings.Contains(string(data), `"end"`) {
				_ = conn.WriteJSON(roomFrame{Type: "final", Text: "piece piece done"})
				return
			}
		}
	}))
	defer srv.Close()

	tr := NewRoomTransport(strings.Replace(srv.URL, "http", "ws", 1), "tk-1")
	chunks := make(chan []byte, 2)
	chunks <- []byte("a")
	chunks <- []byte("b")
	close(chunks)

	text, err := tr.Run(context.Background(), chunks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if text != "piece piece done" {
		t.Fatalf("text = %q", text)
	}
}
