package widgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"zoe/internal/list"
	"zoe/internal/push"
	"zoe/internal/widget"
)

// ListWidget is the shared machinery behind every list-style tile. Concrete
// types (tasks, shopping, ...) differ only in descriptor, backend list name,
// and whether they ride the realtime channel.
//
// State machine: Loading -> Rendered -> (user edit | sweep | push) ->
// Rendered -> Destroyed. All mutations happen on the in-memory model first;
// Render is a pure projection of it.
type ListWidget struct {
	widget.Base
	deps     Deps
	listType string
	realtime bool
	title    string

	// sweepEvery is list.SweepInterval in production; tests shorten it.
	sweepEvery time.Duration

	// Guarded by the Base state lock.
	loaded     bool
	loadFailed bool
	items      []list.Item
	archived   []list.Item
}

func newListWidget(desc widget.Descriptor, title, listType string, realtime bool, deps Deps) *ListWidget {
	return &ListWidget{
		Base:       widget.NewBase(desc),
		deps:       deps,
		listType:   listType,
		realtime:   realtime,
		title:      title,
		sweepEvery: list.SweepInterval,
	}
}

func (w *ListWidget) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if t := strings.TrimSpace(opts.Title); t != "" {
		w.title = t
	}
	if lt := strings.TrimSpace(opts.Param("list")); lt != "" {
		w.listType = lt
	}

	if err := w.Bind(ctx, surface, w.pollTick); err != nil {
		return err
	}

	// Device-local archive. Loaded before the first fetch so the footer count
	// is right even while the backend is slow.
	if w.deps.Local != nil {
		archived := w.deps.Local.LoadArchive(w.listType, w.deps.userID())
		w.Mutate(func() { w.archived = archived })
	}

	// Realtime variants refresh on push envelopes for their list.
	if sub := w.deps.listsPush(); w.realtime && sub != nil {
		off := sub.Subscribe(push.TypeListUpdated, w.onPush)
		w.OnDestroy(off)
		off = sub.Subscribe(push.TypeItemAdded, w.onPush)
		w.OnDestroy(off)
	}

	// Per-instance archive sweep, independent of the update cadence.
	sctx, cancel := context.WithCancel(ctx)
	w.OnDestroy(cancel)
	go w.sweepLoop(sctx)

	// Initial load happens off the init path so mounting stays snappy.
	go func() { _ = w.Update(ctx) }()
	return nil
}

// pollTick is the automatic cadence. Realtime widgets skip the fetch while
// the push channel is healthy; the 30s interval is purely their fallback.
func (w *ListWidget) pollTick(ctx context.Context) error {
	if sub := w.deps.listsPush(); w.realtime && sub != nil && sub.Connected() {
		return nil
	}
	return w.Update(ctx)
}

func (w *ListWidget) onPush(env push.Envelope) {
	if env.List != "" && env.List != w.listType {
		return
	}
	// Refresh off the read goroutine; handlers must not block.
	go func() { _ = w.Update(context.Background()) }()
}

func (w *ListWidget) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil // destroyed: update is a no-op
	}
	items, err := w.deps.API.GetList(ctx, w.listType)
	if err != nil {
		// Swallowed at the widget boundary: render falls back instead of
		// propagating. One widget's backend trouble never breaks siblings.
		w.deps.logger().Debug("list fetch failed",
			zap.String("list", w.listType), zap.Error(err))
		w.Commit(gen, func() { w.loadFailed = !w.loaded })
		w.Invalidate()
		return nil
	}
	for i := range items {
		items[i] = items[i].Normalize()
	}
	w.Commit(gen, func() {
		w.items = items
		w.loaded = true
		w.loadFailed = false
	})
	w.Invalidate()
	return nil
}

// Add prepends a new item optimistically and persists it best-effort. There
// is no rollback when the persist fails; the next successful fetch is the
// reconciliation point. Known limitation carried over from the original
// dashboard.
func (w *ListWidget) Add(ctx context.Context, text string) list.Item {
	it := list.Item{ID: list.NewItemID(time.Now()), Text: text}.Normalize()
	if it.Text == "" {
		return it
	}
	if !w.Mutate(func() {
		w.items = append([]list.Item{it}, w.items...)
		w.loaded = true
	}) {
		return it
	}
	w.Invalidate()
	w.persist(ctx, "add", func(ctx context.Context) error {
		return w.deps.API.AddItem(ctx, w.listType, it)
	})
	return it
}

// Toggle flips completion. The checkbox renders in its new state before the
// network call resolves.
func (w *ListWidget) Toggle(ctx context.Context, id int64) bool {
	var updated list.Item
	var found bool
	w.Mutate(func() {
		for i := range w.items {
			if w.items[i].ID != id {
				continue
			}
			w.items[i].Completed = !w.items[i].Completed
			if w.items[i].Completed {
				now := time.Now()
				w.items[i].CompletedAt = &now
			} else {
				w.items[i].CompletedAt = nil
			}
			updated = w.items[i]
			found = true
			return
		}
	})
	if !found {
		return false
	}
	w.Invalidate()
	w.persist(ctx, "toggle", func(ctx context.Context) error {
		return w.deps.API.UpdateItem(ctx, w.listType, updated)
	})
	return true
}

// Delete removes an item optimistically.
func (w *ListWidget) Delete(ctx context.Context, id int64) bool {
	var found bool
	w.Mutate(func() {
		for i := range w.items {
			if w.items[i].ID == id {
				w.items = append(w.items[:i:i], w.items[i+1:]...)
				found = true
				return
			}
		}
	})
	if !found {
		return false
	}
	w.Invalidate()
	w.persist(ctx, "delete", func(ctx context.Context) error {
		return w.deps.API.DeleteItem(ctx, w.listType, id)
	})
	return true
}

// persist runs a best-effort backend write in the background. Failures are
// logged and otherwise dropped (fire-and-forget; see Add).
func (w *ListWidget) persist(ctx context.Context, op string, fn func(context.Context) error) {
	go func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := fn(pctx); err != nil {
			w.deps.logger().Warn("best-effort persist failed",
				zap.String("list", w.listType), zap.String("op", op), zap.Error(err))
		}
	}()
}

func (w *ListWidget) sweepLoop(ctx context.Context) {
	t := time.NewTicker(w.sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			w.RunSweep(now)
		}
	}
}

// RunSweep moves stale completed items into the device-local archive and
// persists the capped archive. Exposed for host-triggered sweeps and tests.
func (w *ListWidget) RunSweep(now time.Time) {
	var res list.SweepResult
	moved := false
	w.Mutate(func() {
		res = list.Sweep(w.items, w.archived, now)
		w.items = res.Active
		w.archived = res.Archived
		moved = res.Moved > 0 || res.Evicted > 0
	})
	if !moved {
		return
	}
	if w.deps.Local != nil {
		if err := w.deps.Local.SaveArchive(w.listType, w.deps.userID(), res.Archived); err != nil {
			w.deps.logger().Warn("archive save failed",
				zap.String("list", w.listType), zap.Error(err))
		}
	}
	w.Invalidate()
}

// Items returns a snapshot of the active items.
func (w *ListWidget) Items() []list.Item {
	var out []list.Item
	w.ReadState(func() { out = append(out, w.items...) })
	return out
}

// ArchivedItems returns a snapshot of the local archive, newest first.
func (w *ListWidget) ArchivedItems() []list.Item {
	var out []list.Item
	w.ReadState(func() { out = append(out, w.archived...) })
	return out
}

func (w *ListWidget) Render() string {
	width, height := w.Bounds()
	if width <= 0 {
		width = 40
	}

	var b strings.Builder
	b.WriteString(tileHeader(w.title, width))
	b.WriteString("\n")

	var loaded, failed bool
	var items, archived []list.Item
	w.ReadState(func() {
		loaded, failed = w.loaded, w.loadFailed
		items = append(items, w.items...)
		archived = append(archived, w.archived...)
	})

	switch {
	case !loaded && failed:
		b.WriteString(emptyState("No items yet"))
	case !loaded:
		b.WriteString(mutedStyle.Render("Loading…"))
	case len(items) == 0:
		b.WriteString(emptyState("No items yet"))
	default:
		max := len(items)
		if height > 2 && max > height-2 {
			max = height - 2
		}
		for i := 0; i < max; i++ {
			b.WriteString(renderItem(items[i], width, 0))
			if i < max-1 {
				b.WriteString("\n")
			}
		}
		if len(items) > max {
			b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("… %d more", len(items)-max)))
		}
	}

	if len(archived) > 0 {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d archived", len(archived))))
	}
	return b.String()
}

func renderItem(it list.Item, width, depth int) string {
	indent := strings.Repeat("  ", depth)
	box := "[ ] "
	text := it.DisplayText()
	if it.Completed {
		box = "[x] "
		text = doneStyle.Render(text)
	}
	line := truncate(indent+box+text, width)
	if len(it.SubItems) == 0 || depth >= list.MaxSubItemDepth-1 {
		return line
	}
	parts := []string{line}
	for _, sub := range it.SubItems {
		parts = append(parts, renderItem(sub, width, depth+1))
	}
	return strings.Join(parts, "\n")
}

func (w *ListWidget) Destroy() error { return w.Close() }
