package widget

import (
	"context"
	"sync"
	"time"
)

// Base owns the lifecycle bookkeeping every widget needs: the surface binding,
// the automatic update ticker, destroy idempotence, and the generation guard
// that makes overlapping updates last-response-wins.
//
// Concrete widgets embed Base and call Bind from their Init, Begin/Commit from
// their Update, and ReadState from their Render. Base.Close is wired into
// Destroy so double-destroy never double-cancels an already-cleared ticker.
type Base struct {
	desc Descriptor

	mu        sync.Mutex
	surface   Surface
	bound     bool
	destroyed bool
	gen       uint64
	teardown  []func()

	cancel context.CancelFunc
	done   chan struct{}
}

func NewBase(desc Descriptor) Base {
	return Base{desc: desc.Normalize()}
}

func (b *Base) Descriptor() Descriptor { return b.desc }

// Bind attaches the widget to its surface and, when the descriptor asks for
// automatic polling, starts the ticker goroutine driving update. The goroutine
// is owned by Base and joined on Close, so a destroyed widget never has a
// stray ticker firing into freed state.
func (b *Base) Bind(ctx context.Context, surface Surface, update func(context.Context) error) error {
	if surface == nil {
		return ErrNilSurface
	}
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return AlreadyBoundError{Type: b.desc.Type}
	}
	if b.bound {
		b.mu.Unlock()
		return AlreadyBoundError{Type: b.desc.Type}
	}
	b.bound = true
	b.surface = surface

	interval := b.desc.UpdateInterval
	if interval > 0 && update != nil {
		tctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		b.cancel = cancel
		b.done = done
		b.mu.Unlock()

		go func() {
			defer close(done)
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-tctx.Done():
					return
				case <-t.C:
					// Update swallows its own failures; a tick must never
					// kill the loop.
					_ = update(tctx)
				}
			}
		}()
		return nil
	}
	b.mu.Unlock()
	return nil
}

// OnDestroy registers a cleanup run exactly once by Close, in reverse
// registration order (sockets before stores, etc.).
func (b *Base) OnDestroy(fn func()) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.teardown = append(b.teardown, fn)
	b.mu.Unlock()
}

// Close releases everything Bind opened. Safe to call repeatedly and safe to
// call when Bind never ran (partially failed Init).
func (b *Base) Close() error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return nil
	}
	b.destroyed = true
	cancel := b.cancel
	done := b.done
	teardown := b.teardown
	b.cancel = nil
	b.done = nil
	b.teardown = nil
	b.surface = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	for i := len(teardown) - 1; i >= 0; i-- {
		teardown[i]()
	}
	return nil
}

func (b *Base) Destroyed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}

// Invalidate forwards to the bound surface, if any. Stale callbacks firing
// after destroy find no surface and no-op.
func (b *Base) Invalidate() {
	b.mu.Lock()
	s := b.surface
	b.mu.Unlock()
	if s != nil {
		s.Invalidate()
	}
}

// Bounds reports the current surface bounds, or zeros when unbound.
func (b *Base) Bounds() (int, int) {
	b.mu.Lock()
	s := b.surface
	b.mu.Unlock()
	if s == nil {
		return 0, 0
	}
	return s.Bounds()
}

// Begin opens an update generation. ok is false when the widget is destroyed
// (the caller should return nil immediately: update-after-destroy is a no-op).
func (b *Base) Begin() (gen uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return 0, false
	}
	b.gen++
	return b.gen, true
}

// Commit applies fn to widget state under the state lock, but only when gen is
// still the newest generation and the widget is alive. A slow response losing
// the race is dropped whole, so Render never sees a torn mix of two fetches.
func (b *Base) Commit(gen uint64, fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed || gen != b.gen {
		return false
	}
	fn()
	return true
}

// Mutate applies a local state change (user edit, push event) under the state
// lock. It bumps the update generation, so an in-flight fetch issued before
// the edit can no longer clobber it when its response lands. Returns false on
// a destroyed widget.
func (b *Base) Mutate(fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return false
	}
	b.gen++
	fn()
	return true
}

// ReadState runs fn under the state lock. Render implementations use this so
// they observe a consistent snapshot.
func (b *Base) ReadState(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
}
