// Package widget defines the lifecycle contract every dashboard tile implements,
// plus the registry the host uses to discover available widget types.
//
// The contract is deliberately small: a widget owns its in-memory state and a
// pure Render projection of it; the host owns layout, scheduling of host-driven
// refreshes, and teardown. Anything a widget opens during Init (tickers,
// sockets, subscriptions) must be released by Destroy exactly once.
package widget

import (
	"context"
	"strings"
	"time"
)

// Size is a widget's preferred footprint on the dashboard grid.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXLarge Size = "xlarge"
)

// Descriptor carries identity and policy for a widget type.
type Descriptor struct {
	// Type is the unique registry key (e.g. "shopping", "weather").
	Type string

	Version     string
	DefaultSize Size

	// UpdateInterval is the automatic polling cadence. Zero means
	// "lifecycle-driven only": the widget refreshes only when the host or a
	// push event asks it to.
	UpdateInterval time.Duration

	// Capabilities are free-form tags ("realtime", "voice", "local-archive")
	// the host can use to gate features without knowing concrete types.
	Capabilities []string
}

// Normalize trims and defaults the descriptor fields. It never does I/O.
func (d Descriptor) Normalize() Descriptor {
	d.Type = strings.TrimSpace(d.Type)
	if strings.TrimSpace(d.Version) == "" {
		d.Version = "1.0"
	}
	switch d.DefaultSize {
	case SizeSmall, SizeMedium, SizeLarge, SizeXLarge:
	default:
		d.DefaultSize = SizeMedium
	}
	if d.UpdateInterval < 0 {
		d.UpdateInterval = 0
	}
	// Dedupe capabilities, preserving first-seen order.
	if len(d.Capabilities) > 0 {
		seen := map[string]bool{}
		out := d.Capabilities[:0]
		for _, c := range d.Capabilities {
			c = strings.TrimSpace(c)
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
		d.Capabilities = out
	}
	return d
}

func (d Descriptor) HasCapability(tag string) bool {
	for _, c := range d.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Surface is the render slot the host hands a widget at mount time. A surface
// belongs to exactly one widget instance at a time; the host enforces this by
// never mounting two widgets into the same slot.
type Surface interface {
	// Invalidate tells the host this widget's Render output changed and the
	// frame should be repainted. Safe to call from any goroutine.
	Invalidate()

	// Bounds reports the cell width/height the widget may render into.
	Bounds() (width, height int)
}

// Options are per-mount parameters supplied by the host (e.g. the list type a
// DynamicList instance should display). Dependencies like the API client are
// injected at factory construction instead.
type Options struct {
	Title  string
	Params map[string]string
}

func (o Options) Param(key string) string {
	if o.Params == nil {
		return ""
	}
	return o.Params[key]
}

// Widget is the mandatory interface every dashboard tile satisfies. It is
// checked at registration time (factories return Widget), so an object with
// merely similar method names cannot sneak into the registry.
type Widget interface {
	Descriptor() Descriptor

	// Init binds the widget to its surface, renders initial state, and opens
	// the widget's synchronization channels. Calling Init twice on the same
	// instance is a caller error and returns AlreadyBoundError. A nil surface
	// fails fast with ErrNilSurface.
	Init(ctx context.Context, surface Surface, opts Options) error

	// Update re-synchronizes displayed state from the authoritative source.
	// Overlapping calls are safe: the newest response wins and partial state
	// is never exposed to Render. Update on a destroyed instance is a no-op
	// and never returns an error for it.
	Update(ctx context.Context) error

	// Render is a pure projection of current in-memory state into terminal
	// markup. It must be re-callable without side effects.
	Render() string

	// Destroy releases everything Init opened: the update ticker, sockets,
	// subscriptions, cross-widget references. Idempotent, and safe to call
	// even if Init partially failed.
	Destroy() error
}

// Factory builds a fresh widget instance for one mount.
type Factory func(opts Options) (Widget, error)
