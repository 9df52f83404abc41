package widgets

import (
	"context"
	"strings"
	"time"

	"zoe/internal/widget"
)

// Clock is the time tile: no network, no state beyond the wall clock. Its
// update just invalidates so the host repaints the current time.
type Clock struct {
	widget.Base
	now func() time.Time
}

func NewClock(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Clock{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "time",
				Version:        "1.0",
				DefaultSize:    widget.SizeSmall,
				UpdateInterval: time.Second,
			}),
			now: time.Now,
		}, nil
	}
}

func (w *Clock) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	return w.Bind(ctx, surface, w.Update)
}

func (w *Clock) Update(ctx context.Context) error {
	if _, ok := w.Begin(); !ok {
		return nil
	}
	w.Invalidate()
	return nil
}

func (w *Clock) Render() string {
	width, _ := w.Bounds()
	if width <= 0 {
		width = 20
	}
	now := w.now()
	var b strings.Builder
	b.WriteString(truncate(titleStyle.Render(now.Format("15:04")), width))
	b.WriteString("\n")
	b.WriteString(truncate(mutedStyle.Render(now.Format("Mon, Jan 2")), width))
	return b.String()
}

func (w *Clock) Destroy() error { return w.Close() }
