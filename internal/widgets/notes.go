package widgets

import (
	"context"
	"strings"
	"time"

	"zoe/internal/list"
	"zoe/internal/widget"
)

// Notes shows the pinned notes list as markdown snippets. Unlike the task
// lists there is no completion state, so it reads the backend list directly
// instead of going through ListWidget.
type Notes struct {
	widget.Base
	deps Deps

	notes  []list.Item
	loaded bool
}

func NewNotes(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Notes{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "notes",
				Version:        "1.0",
				DefaultSize:    widget.SizeMedium,
				UpdateInterval: 2 * time.Minute,
			}),
			deps: deps,
		}, nil
	}
}

func (w *Notes) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, w.Update); err != nil {
		return err
	}
	go func() { _ = w.Update(ctx) }()
	return nil
}

func (w *Notes) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil
	}
	items, err := w.deps.API.GetList(ctx, "notes")
	if err != nil {
		w.Invalidate()
		return nil
	}
	w.Commit(gen, func() {
		w.notes = items
		w.loaded = true
	})
	w.Invalidate()
	return nil
}

func (w *Notes) Render() string {
	width, height := w.Bounds()
	if width <= 0 {
		width = 40
	}

	var notes []list.Item
	var loaded bool
	w.ReadState(func() {
		notes = append(notes, w.notes...)
		loaded = w.loaded
	})

	var b strings.Builder
	b.WriteString(tileHeader("Notes", width))
	b.WriteString("\n")
	if !loaded {
		b.WriteString(mutedStyle.Render("Loading…"))
		return b.String()
	}
	if len(notes) == 0 {
		b.WriteString(emptyState("No notes yet"))
		return b.String()
	}

	max := len(notes)
	if height > 2 && max > height-2 {
		max = height - 2
	}
	for i := 0; i < max; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMarkdown(notes[i].DisplayText(), width))
	}
	return b.String()
}

func (w *Notes) Destroy() error { return w.Close() }
