package widgets

import (
	"context"
	"sort"
	"strings"
	"time"

	"zoe/internal/api"
	"zoe/internal/widget"
)

// Events shows the next few days of calendar entries.
type Events struct {
	widget.Base
	deps Deps
	days int

	events []api.Event
	loaded bool
}

func NewEvents(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Events{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "events",
				Version:        "1.1",
				DefaultSize:    widget.SizeMedium,
				UpdateInterval: 5 * time.Minute,
			}),
			deps: deps,
			days: 7,
		}, nil
	}
}

func (w *Events) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, w.Update); err != nil {
		return err
	}
	go func() { _ = w.Update(ctx) }()
	return nil
}

func (w *Events) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil
	}
	from := time.Now()
	events, err := w.deps.API.Events(ctx, from, from.AddDate(0, 0, w.days))
	if err != nil {
		// A failed fetch keeps whatever is on screen; a tile that never
		// loaded settles on the empty state rather than a stuck spinner.
		w.Commit(gen, func() { w.loaded = true })
		w.Invalidate()
		return nil
	}
	sort.SliceStable(events, func(i, j int) bool {
		ti, iok := events[i].StartTime()
		tj, jok := events[j].StartTime()
		if iok != jok {
			return iok // parseable starts sort first
		}
		return ti.Before(tj)
	})
	w.Commit(gen, func() {
		w.events = events
		w.loaded = true
	})
	w.Invalidate()
	return nil
}

func (w *Events) Render() string {
	width, height := w.Bounds()
	if width <= 0 {
		width = 40
	}

	var events []api.Event
	var loaded bool
	w.ReadState(func() {
		events = append(events, w.events...)
		loaded = w.loaded
	})

	var b strings.Builder
	b.WriteString(tileHeader("Upcoming", width))
	b.WriteString("\n")
	if !loaded {
		b.WriteString(mutedStyle.Render("Loading…"))
		return b.String()
	}
	if len(events) == 0 {
		b.WriteString(emptyState("Nothing scheduled"))
		return b.String()
	}

	max := len(events)
	if height > 2 && max > height-2 {
		max = height - 2
	}
	for i := 0; i < max; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderEvent(events[i], width))
	}
	return b.String()
}

func renderEvent(e api.Event, width int) string {
	title := e.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	when := "—"
	if t, ok := e.StartTime(); ok {
		if e.AllDay {
			when = t.Format("Jan 2")
		} else {
			when = t.Format("Jan 2 15:04")
		}
	}
	return truncate(mutedStyle.Render(when)+" "+title, width)
}

func (w *Events) Destroy() error { return w.Close() }
