package dash

import "sync"

// slotSurface is the render slot handed to exactly one widget instance. It
// forwards invalidations onto the host's shared wake channel (buffered,
// coalescing) and reports the bounds the layout pass assigned.
//
// release disconnects it, so a stale callback from a destroyed widget can
// never wake the host on behalf of a slot it no longer owns.
type slotSurface struct {
	mu       sync.Mutex
	width    int
	height   int
	released bool
	wake     chan<- struct{}
}

func newSlotSurface(wake chan<- struct{}) *slotSurface {
	return &slotSurface{wake: wake}
}

func (s *slotSurface) Invalidate() {
	s.mu.Lock()
	released := s.released
	wake := s.wake
	s.mu.Unlock()
	if released || wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default: // a repaint is already pending
	}
}

func (s *slotSurface) Bounds() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *slotSurface) setBounds(w, h int) {
	s.mu.Lock()
	s.width = w
	s.height = h
	s.mu.Unlock()
}

func (s *slotSurface) release() {
	s.mu.Lock()
	s.released = true
	s.mu.Unlock()
}
