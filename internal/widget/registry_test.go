package widget

import (
	"context"
	"errors"
	"testing"
)

type stubWidget struct {
	Base
	label string
}

func newStubWidget(desc Descriptor, label string) *stubWidget {
	return &stubWidget{Base: NewBase(desc), label: label}
}

func (w *stubWidget) Init(ctx context.Context, s Surface, opts Options) error {
	return w.Bind(ctx, s, w.Update)
}
func (w *stubWidget) Update(ctx context.Context) error { return nil }
func (w *stubWidget) Render() string                   { return w.label }
func (w *stubWidget) Destroy() error                   { return w.Close() }

func TestRegistryOverwriteLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Register("clock", func(Options) (Widget, error) {
		return newStubWidget(Descriptor{Type: "clock"}, "first"), nil
	})
	r.Register("clock", func(Options) (Widget, error) {
		return newStubWidget(Descriptor{Type: "clock"}, "second"), nil
	})

	w, err := r.New("clock", Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := w.Render(); got != "second" {
		t.Fatalf("expected the later registration to win, got %q", got)
	}
}

func TestRegistryUnknownType(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("nonexistent"); ok {
		t.Fatalf("Lookup should report ok=false for unknown types")
	}

	_, err := r.New("nonexistent", Options{})
	var unknown UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
	if unknown.Type != "nonexistent" {
		t.Fatalf("unexpected type in error: %q", unknown.Type)
	}
}

func TestRegistryTypesSorted(t *testing.T) {
	r := NewRegistry()
	for _, typ := range []string{"weather", "clock", "tasks"} {
		typ := typ
		r.Register(typ, func(Options) (Widget, error) {
			return newStubWidget(Descriptor{Type: typ}, typ), nil
		})
	}
	got := r.Types()
	want := []string{"clock", "tasks", "weather"}
	if len(got) != len(want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Types() = %v, want %v", got, want)
		}
	}
}

func TestRegistryIgnoresEmptyRegistration(t *testing.T) {
	r := NewRegistry()
	r.Register("  ", func(Options) (Widget, error) { return nil, nil })
	r.Register("x", nil)
	if got := r.Types(); len(got) != 0 {
		t.Fatalf("expected empty registry, got %v", got)
	}
}
