package widgets

import (
	"context"
	"strings"
	"time"

	"zoe/internal/api"
	"zoe/internal/widget"
)

// WeekPlanner is the wide calendar tile: one column of events per weekday for
// the current week.
type WeekPlanner struct {
	widget.Base
	deps Deps

	weekStart time.Time
	byDay     map[string][]api.Event
	loaded    bool
}

func NewWeekPlanner(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &WeekPlanner{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "weekplanner",
				Version:        "1.0",
				DefaultSize:    widget.SizeXLarge,
				UpdateInterval: 10 * time.Minute,
			}),
			deps: deps,
		}, nil
	}
}

func (w *WeekPlanner) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, w.Update); err != nil {
		return err
	}
	go func() { _ = w.Update(ctx) }()
	return nil
}

// startOfWeek returns the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func (w *WeekPlanner) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil
	}
	start := startOfWeek(time.Now())
	events, err := w.deps.API.Events(ctx, start, start.AddDate(0, 0, 7))
	if err != nil {
		w.Invalidate()
		return nil
	}
	byDay := map[string][]api.Event{}
	for _, e := range events {
		t, ok := e.StartTime()
		if !ok {
			continue
		}
		key := t.Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
	}
	w.Commit(gen, func() {
		w.weekStart = start
		w.byDay = byDay
		w.loaded = true
	})
	w.Invalidate()
	return nil
}

func (w *WeekPlanner) Render() string {
	width, _ := w.Bounds()
	if width <= 0 {
		width = 80
	}

	var start time.Time
	var byDay map[string][]api.Event
	var loaded bool
	w.ReadState(func() {
		start = w.weekStart
		byDay = w.byDay
		loaded = w.loaded
	})

	var b strings.Builder
	b.WriteString(tileHeader("This Week", width))
	b.WriteString("\n")
	if !loaded {
		b.WriteString(mutedStyle.Render("Loading…"))
		return b.String()
	}

	for d := 0; d < 7; d++ {
		day := start.AddDate(0, 0, d)
		if d > 0 {
			b.WriteString("\n")
		}
		b.WriteString(truncate(mutedStyle.Render(day.Format("Mon 2")), width))
		for _, e := range byDay[day.Format("2006-01-02")] {
			title := e.Title
			if strings.TrimSpace(title) == "" {
				title = "Untitled"
			}
			b.WriteString("\n")
			b.WriteString(truncate("  · "+title, width))
		}
	}
	return b.String()
}

func (w *WeekPlanner) Destroy() error { return w.Close() }
