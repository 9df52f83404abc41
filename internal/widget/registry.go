package widget

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps widget type names to factories. The host constructs one at
// startup and threads it through explicitly; there is no package global.
//
// Registering a type that already exists silently overwrites the previous
// entry (last write wins). Callers that care can check Lookup first. There is
// no removal operation: the registry lives for the process lifetime.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]Factory{}}
}

func (r *Registry) Register(typ string, f Factory) {
	typ = strings.TrimSpace(typ)
	if typ == "" || f == nil {
		return
	}
	r.mu.Lock()
	r.entries[typ] = f
	r.mu.Unlock()
}

// Lookup returns the factory for typ. Unknown types report ok=false; the host
// treats that as "widget not available" and skips the slot rather than crash.
func (r *Registry) Lookup(typ string) (Factory, bool) {
	r.mu.RLock()
	f, ok := r.entries[strings.TrimSpace(typ)]
	r.mu.RUnlock()
	return f, ok
}

// New instantiates a widget of the given type.
func (r *Registry) New(typ string, opts Options) (Widget, error) {
	f, ok := r.Lookup(typ)
	if !ok {
		return nil, UnknownTypeError{Type: typ}
	}
	return f(opts)
}

// Types lists registered type names, sorted for stable output.
func (r *Registry) Types() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
