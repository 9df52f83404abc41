package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"zoe/internal/api"
	"zoe/internal/config"
	"zoe/internal/widget"
)

func TestRegisterAllCatalogue(t *testing.T) {
	reg := widget.NewRegistry()
	RegisterAll(reg, Deps{})

	want := []string{
		"bucket", "dynamiclist", "events", "home", "journal", "music",
		"notes", "orb", "personal", "projects", "reminders", "shopping",
		"system", "tasks", "time", "weather", "weekplanner",
	}
	got := reg.Types()
	if len(got) != len(want) {
		t.Fatalf("registry has %d types, want %d: %v", len(got), len(want), got)
	}
	for i, typ := range want {
		if got[i] != typ {
			t.Fatalf("types[%d] = %q, want %q", i, got[i], typ)
		}
	}
}

func TestRegistryConstructsEveryType(t *testing.T) {
	reg := widget.NewRegistry()
	RegisterAll(reg, Deps{})

	for _, typ := range reg.Types() {
		w, err := reg.New(typ, widget.Options{})
		if err != nil {
			t.Fatalf("New(%q): %v", typ, err)
		}
		d := w.Descriptor()
		if d.Type == "" {
			t.Fatalf("%q has empty descriptor type", typ)
		}
		if d.Version == "" {
			t.Fatalf("%q has empty version after normalize", typ)
		}
	}
}

func TestRegistryUnknownType(t *testing.T) {
	reg := widget.NewRegistry()
	RegisterAll(reg, Deps{})

	_, err := reg.New("hologram", widget.Options{})
	var unknown widget.UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownTypeError", err)
	}
}

type stubLocator struct {
	loc   *config.Location
	err   error
	block bool
}

func (l *stubLocator) Locate(ctx context.Context) (*config.Location, error) {
	if l.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return l.loc, l.err
}

func weatherDeps(t *testing.T, saved *config.Location) (Deps, *atomic.Value) {
	t.Helper()
	var lastQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.Query().Get("lat") + "," + r.URL.Query().Get("lon"))
		switch r.URL.Path {
		case "/api/weather/current":
			json.NewEncoder(w).Encode(api.Weather{Location: "Home", Temperature: 21, Condition: "Clear"})
		case "/api/weather/forecast":
			json.NewEncoder(w).Encode(map[string]any{"days": []api.ForecastDay{}})
		}
	}))
	t.Cleanup(srv.Close)
	return Deps{
		API:    api.NewClient(srv.URL, stubSession{}),
		Config: &config.Config{Location: saved},
	}, &lastQuery
}

func TestWeatherUsesLiveLocationWhenAvailable(t *testing.T) {
	deps, lastQuery := weatherDeps(t, &config.Location{Name: "Saved", Latitude: 1, Longitude: 1})
	loc := &stubLocator{loc: &config.Location{Name: "Live", Latitude: 52.5, Longitude: 13.4}}

	w, err := NewWeatherWithLocator(deps, loc)(widget.Options{})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	wd := w.(*Weather)
	if err := wd.Update(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := lastQuery.Load(); got != "52.5000,13.4000" {
		t.Fatalf("queried %v, want live coordinates", got)
	}
	if out := wd.Render(); !strings.Contains(out, "21° Clear") {
		t.Fatalf("render:\n%s", out)
	}
}

func TestWeatherFallsBackToSavedLocation(t *testing.T) {
	deps, lastQuery := weatherDeps(t, &config.Location{Name: "Saved", Latitude: 48.1, Longitude: 11.6})
	loc := &stubLocator{err: errors.New("no fix")}

	w, _ := NewWeatherWithLocator(deps, loc)(widget.Options{})
	wd := w.(*Weather)
	if err := wd.Update(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := lastQuery.Load(); got != "48.1000,11.6000" {
		t.Fatalf("queried %v, want saved coordinates", got)
	}
}

func TestWeatherNoLocationRendersUnavailable(t *testing.T) {
	deps, _ := weatherDeps(t, nil)

	w, _ := NewWeather(deps)(widget.Options{})
	wd := w.(*Weather)
	if err := wd.Update(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if out := wd.Render(); !strings.Contains(out, "Weather unavailable") {
		t.Fatalf("render:\n%s", out)
	}
}

func TestWeatherLocatorTimeoutBounded(t *testing.T) {
	deps, lastQuery := weatherDeps(t, &config.Location{Name: "Saved", Latitude: 2, Longitude: 3})
	loc := &stubLocator{block: true}

	w, _ := NewWeatherWithLocator(deps, loc)(widget.Options{})
	wd := w.(*Weather)

	// Bound the whole update tighter than the locator would block on its own;
	// the internal timeout must kick in and the saved location take over.
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()
	start := time.Now()
	if err := wd.Update(ctx); err != nil {
		t.Fatalf("update: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Fatalf("update blocked %v on a dead locator", elapsed)
	}
	if got := lastQuery.Load(); got != "2.0000,3.0000" {
		t.Fatalf("queried %v, want saved coordinates", got)
	}
}

func TestMusicTogglesOptimistically(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/music/status":
			json.NewEncoder(w).Encode(api.Playback{Playing: false, Track: "Blue in Green", Artist: "Miles Davis"})
		case "/api/music/play", "/api/music/pause":
			<-release
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()
	defer close(release)

	w, _ := NewMusic(Deps{API: api.NewClient(srv.URL, stubSession{})})(widget.Options{})
	m := w.(*Music)
	if err := m.Update(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if out := m.Render(); !strings.Contains(out, "▮▮") {
		t.Fatalf("expected paused icon:\n%s", out)
	}

	m.TogglePlayback(context.Background())

	// The backend call is still held open; the tile must already show play.
	if out := m.Render(); !strings.Contains(out, "▶") {
		t.Fatalf("toggle not reflected before persist:\n%s", out)
	}
}

func TestClockRendersTime(t *testing.T) {
	w, _ := NewClock(Deps{})(widget.Options{})
	c := w.(*Clock)
	if err := c.Init(context.Background(), &stubSurface{w: 30, h: 4}, widget.Options{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer c.Destroy()

	out := c.Render()
	if !strings.Contains(out, ":") {
		t.Fatalf("render has no clock face:\n%s", out)
	}
}

func TestEventsFailedRefreshKeepsEmptyState(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"events": []api.Event{}})
	}))
	defer srv.Close()

	deps := Deps{API: api.NewClient(srv.URL, stubSession{})}
	w, err := NewEvents(deps)(widget.Options{})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	ev := w.(*Events)
	surface := &stubSurface{w: 40, h: 10}
	if err := ev.Init(context.Background(), surface, widget.Options{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer ev.Destroy()

	waitFor(t, func() bool {
		return strings.Contains(ev.Render(), "Nothing scheduled")
	})

	fail.Store(true)
	if err := ev.Update(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if out := ev.Render(); !strings.Contains(out, "Nothing scheduled") {
		t.Fatalf("failed refresh lost the empty state:\n%s", out)
	}
}

func TestEventsFailedRefreshKeepsEvents(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"events": []api.Event{
			{ID: "1", Title: "Dentist", Start: "2026-09-02T10:00:00Z"},
		}})
	}))
	defer srv.Close()

	deps := Deps{API: api.NewClient(srv.URL, stubSession{})}
	w, _ := NewEvents(deps)(widget.Options{})
	ev := w.(*Events)
	surface := &stubSurface{w: 40, h: 10}
	if err := ev.Init(context.Background(), surface, widget.Options{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer ev.Destroy()

	waitFor(t, func() bool {
		return strings.Contains(ev.Render(), "Dentist")
	})

	fail.Store(true)
	if err := ev.Update(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if out := ev.Render(); !strings.Contains(out, "Dentist") {
		t.Fatalf("failed refresh dropped existing events:\n%s", out)
	}
}

func TestMusicNextTrackAdvancesAndRefreshes(t *testing.T) {
	var skips atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/music/status":
			track := "Blue in Green"
			if skips.Load() > 0 {
				track = "All Blues"
			}
			json.NewEncoder(w).Encode(api.Playback{Playing: true, Track: track, Artist: "Miles Davis"})
		case "/api/music/next":
			skips.Add(1)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	w, _ := NewMusic(Deps{API: api.NewClient(srv.URL, stubSession{})})(widget.Options{})
	m := w.(*Music)
	if err := m.Update(context.Background()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if out := m.Render(); !strings.Contains(out, "Blue in Green") {
		t.Fatalf("initial track missing:\n%s", out)
	}

	m.NextTrack(context.Background())

	waitFor(t, func() bool {
		return skips.Load() == 1 && strings.Contains(m.Render(), "All Blues")
	})
}
