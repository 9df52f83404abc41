package widgets

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"zoe/internal/api"
	"zoe/internal/widget"
)

// Markdown rendering for the journal/notes tiles. Renderers are cached per
// width; creating one per frame would be far too slow, and WithAutoStyle can
// block on terminal queries, so a fixed style is used.
var (
	mdMu        sync.Mutex
	mdRenderers = map[int]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	mdMu.Lock()
	r := mdRenderers[width]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdMu.Unlock()
			return md
		}
		mdRenderers[width] = rr
		r = rr
	}
	mdMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Journal shows the latest journal entry, rendered from markdown.
type Journal struct {
	widget.Base
	deps Deps

	entries []api.JournalEntry
	loaded  bool
}

func NewJournal(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Journal{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "journal",
				Version:        "1.0",
				DefaultSize:    widget.SizeLarge,
				UpdateInterval: 5 * time.Minute,
			}),
			deps: deps,
		}, nil
	}
}

func (w *Journal) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, w.Update); err != nil {
		return err
	}
	go func() { _ = w.Update(ctx) }()
	return nil
}

func (w *Journal) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil
	}
	entries, err := w.deps.API.JournalEntries(ctx, 3)
	if err != nil {
		w.Invalidate()
		return nil
	}
	w.Commit(gen, func() {
		w.entries = entries
		w.loaded = true
	})
	w.Invalidate()
	return nil
}

func (w *Journal) Render() string {
	width, _ := w.Bounds()
	if width <= 0 {
		width = 50
	}

	var entries []api.JournalEntry
	var loaded bool
	w.ReadState(func() {
		entries = append(entries, w.entries...)
		loaded = w.loaded
	})

	var b strings.Builder
	b.WriteString(tileHeader("Journal", width))
	b.WriteString("\n")
	if !loaded {
		b.WriteString(mutedStyle.Render("Loading…"))
		return b.String()
	}
	if len(entries) == 0 {
		b.WriteString(emptyState("No entries yet"))
		return b.String()
	}

	e := entries[0]
	title := e.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	b.WriteString(truncate(title, width))
	if body := renderMarkdown(e.Body, width); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}

func (w *Journal) Destroy() error { return w.Close() }
