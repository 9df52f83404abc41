// Package push maintains the websocket channel to the backend and fans
// incoming envelopes out to subscribed widgets.
//
// The channel is best-effort: on any close or dial failure the subscriber
// waits a fixed 5 seconds and reconnects, forever, until the context ends.
// Widgets that need freshness guarantees poll as a fallback while the channel
// is down (Connected reports the current state).
package push

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope is the JSON frame carried on /ws/device and /api/lists/ws.
type Envelope struct {
	Type string          `json:"type"`
	List string          `json:"list,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Envelope types observed on the wire.
const (
	TypeMediaPlay     = "media_play"
	TypeMediaPause    = "media_pause"
	TypeListUpdated   = "list_updated"
	TypeItemAdded     = "item_added"
	TypeItemCompleted = "item_completed"
)

// ReconnectDelay is the fixed retry interval after a closed connection.
const ReconnectDelay = 5 * time.Second

type Handler func(Envelope)

type registered struct {
	id uint64
	fn Handler
}

type Subscriber struct {
	wsURL string

	mu       sync.RWMutex
	handlers map[string][]registered
	nextID   uint64

	connected atomic.Bool

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	// dial and delay are swappable for tests.
	dial  func(ctx context.Context, u string) (*websocket.Conn, error)
	delay time.Duration
}

// WSEndpoint derives the websocket URL for path from an http(s) backend base.
func WSEndpoint(baseURL, path string) string {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = path
	u.RawQuery = ""
	return u.String()
}

func NewSubscriber(wsURL string) *Subscriber {
	return &Subscriber{
		wsURL:    wsURL,
		handlers: map[string][]registered{},
		delay:    ReconnectDelay,
		dial: func(ctx context.Context, u string) (*websocket.Conn, error) {
			c, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
			return c, err
		},
	}
}

// Subscribe registers a handler for one envelope type, or for every envelope
// when envType is "*". Handlers run on the read goroutine and must not block.
// The returned func removes the handler; widgets call it from their destroy
// path so the subscriber holds no references to dead instances.
func (s *Subscriber) Subscribe(envType string, h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[envType] = append(s.handlers[envType], registered{id: id, fn: h})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		hs := s.handlers[envType]
		for i, reg := range hs {
			if reg.id == id {
				s.handlers[envType] = append(hs[:i:i], hs[i+1:]...)
				break
			}
		}
	}
}

// Connected reports whether the channel is currently up.
func (s *Subscriber) Connected() bool { return s.connected.Load() }

// Start launches the connect/read/reconnect loop. Subsequent calls no-op.
func (s *Subscriber) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		s.done = make(chan struct{})
		go s.run(ctx)
	})
}

// Close tears the channel down and waits for the loop to exit. Idempotent.
func (s *Subscriber) Close() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.done)
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := s.dial(ctx, s.wsURL)
		if err != nil {
			if !sleepCtx(ctx, s.delay) {
				return
			}
			continue
		}

		s.connected.Store(true)
		s.readLoop(ctx, conn)
		s.connected.Store(false)
		_ = conn.Close()

		if !sleepCtx(ctx, s.delay) {
			return
		}
	}
}

func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Unblock ReadMessage when the context ends.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// Unknown frames are dropped, not fatal.
			continue
		}
		s.dispatch(env)
	}
}

func (s *Subscriber) dispatch(env Envelope) {
	s.mu.RLock()
	hs := append([]registered(nil), s.handlers[env.Type]...)
	hs = append(hs, s.handlers["*"]...)
	s.mu.RUnlock()
	for _, reg := range hs {
		reg.fn(env)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
