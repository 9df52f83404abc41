package widgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zoe/internal/widget"
)

// Home is the greeting tile: who is logged in, which backend we talk to, and
// whether the push channel is up. Lifecycle-driven only; it re-renders when
// the host asks, with no timer of its own.
type Home struct {
	widget.Base
	deps Deps
}

func NewHome(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Home{
			Base: widget.NewBase(widget.Descriptor{
				Type:        "home",
				Version:     "1.0",
				DefaultSize: widget.SizeSmall,
				// UpdateInterval deliberately zero.
			}),
			deps: deps,
		}, nil
	}
}

func (w *Home) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	return w.Bind(ctx, surface, nil)
}

func (w *Home) Update(ctx context.Context) error {
	if _, ok := w.Begin(); !ok {
		return nil
	}
	w.Invalidate()
	return nil
}

func (w *Home) Render() string {
	width, _ := w.Bounds()
	if width <= 0 {
		width = 30
	}

	greeting := "Good day"
	switch h := time.Now().Hour(); {
	case h < 5:
		greeting = "Good night"
	case h < 12:
		greeting = "Good morning"
	case h < 18:
		greeting = "Good afternoon"
	default:
		greeting = "Good evening"
	}

	who := w.deps.userID()
	if strings.TrimSpace(who) == "" {
		who = "there"
	}

	var b strings.Builder
	b.WriteString(truncate(titleStyle.Render(fmt.Sprintf("%s, %s", greeting, who)), width))
	if w.deps.Push != nil {
		b.WriteString("\n")
		if w.deps.Push.Connected() {
			b.WriteString(mutedStyle.Render("● live"))
		} else {
			b.WriteString(mutedStyle.Render("○ polling"))
		}
	}
	return b.String()
}

func (w *Home) Destroy() error { return w.Close() }
