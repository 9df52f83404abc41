package voice

import (
	"context"
	"errors"
	"sync"
)

// ErrNoCapture is returned when no audio capture device/source is available.
// The orb surfaces this as a chat message instead of failing the widget.
var ErrNoCapture = errors.New("voice: no audio capture source available")

// TrackState mirrors media track lifecycle: live while recording, ended once
// stopped. A destroyed orb must leave every track ended.
type TrackState string

const (
	TrackLive  TrackState = "live"
	TrackEnded TrackState = "ended"
)

// Track is one captured media track (audio today; the shape leaves room for
// video).
type Track struct {
	Kind string

	mu    sync.Mutex
	state TrackState
	stop  func()
}

func newTrack(kind string, stop func()) *Track {
	return &Track{Kind: kind, state: TrackLive, stop: stop}
}

func (t *Track) ReadyState() TrackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop ends the track. Idempotent.
func (t *Track) Stop() {
	t.mu.Lock()
	if t.state == TrackEnded {
		t.mu.Unlock()
		return
	}
	t.state = TrackEnded
	stop := t.stop
	t.stop = nil
	t.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// MediaStream bundles the live tracks of one recording session.
type MediaStream struct {
	mu     sync.Mutex
	tracks []*Track
}

func (m *MediaStream) Tracks() []*Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Track(nil), m.tracks...)
}

func (m *MediaStream) addTrack(t *Track) {
	m.mu.Lock()
	m.tracks = append(m.tracks, t)
	m.mu.Unlock()
}

// StopAll ends every track. Called from destroy paths, so it must be safe
// mid-recording and repeatable.
func (m *MediaStream) StopAll() {
	for _, t := range m.Tracks() {
		t.Stop()
	}
}

// Source opens an audio capture session. The returned channel carries raw
// audio chunks and closes when the stream's tracks are stopped or the context
// ends.
type Source interface {
	Open(ctx context.Context) (*MediaStream, <-chan []byte, error)
}

// NoSource is the Source used when the host has no capture capability; Open
// always fails with ErrNoCapture.
type NoSource struct{}

func (NoSource) Open(context.Context) (*MediaStream, <-chan []byte, error) {
	return nil, nil, ErrNoCapture
}

// ChanSource adapts a caller-fed chunk channel into a Source. The TUI feeds
// it from whatever capture backend is compiled in; tests feed it directly.
type ChanSource struct {
	Chunks chan []byte
}

func (s *ChanSource) Open(ctx context.Context) (*MediaStream, <-chan []byte, error) {
	if s == nil || s.Chunks == nil {
		return nil, nil, ErrNoCapture
	}
	out := make(chan []byte)
	stopped := make(chan struct{})
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(stopped) }) }

	stream := &MediaStream{}
	stream.addTrack(newTrack("audio", stop))

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopped:
				return
			case chunk, ok := <-s.Chunks:
				if !ok {
					return
				}
				select {
				case out <- chunk:
				case <-ctx.Done():
					return
				case <-stopped:
					return
				}
			}
		}
	}()
	return stream, out, nil
}
