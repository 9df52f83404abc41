package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zoe/internal/config"
	"zoe/internal/widget"
	"zoe/internal/widgets"
)

func newMirror(t *testing.T) *Server {
	t.Helper()
	reg := widget.NewRegistry()
	widgets.RegisterAll(reg, widgets.Deps{})
	srv, err := NewServer(ServerConfig{
		Addr:   "127.0.0.1:0",
		Config: &config.Config{BackendURL: "http://test", Layout: []config.LayoutSlot{{Type: "time"}, {Type: "ghost"}}},
		Reg:    reg,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func TestConfigValidation(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("empty addr accepted")
	}
	if _, err := NewServer(ServerConfig{Addr: "x"}); err == nil {
		t.Fatalf("nil config accepted")
	}
	if _, err := NewServer(ServerConfig{Addr: "x", Config: &config.Config{}}); err == nil {
		t.Fatalf("nil registry accepted")
	}
}

func TestHomeRendersMountedAndUnavailableTiles(t *testing.T) {
	srv := newMirror(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	body := string(b)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	// The clock mounts; the unknown type renders as unavailable without
	// breaking the page.
	if !strings.Contains(body, "zoe-grid") {
		t.Fatalf("missing grid:\n%s", body)
	}
	if !strings.Contains(body, "ghost unavailable") {
		t.Fatalf("unknown type not surfaced:\n%s", body)
	}
}

func TestHealth(t *testing.T) {
	srv := newMirror(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestCloseDestroysMirroredWidgets(t *testing.T) {
	srv := newMirror(t)
	var mounted widget.Widget
	for _, tile := range srv.tiles {
		if tile.widget != nil {
			mounted = tile.widget
		}
	}
	if mounted == nil {
		t.Fatalf("no widget mounted")
	}
	srv.Close()
	srv.Close() // idempotent

	if err := mounted.Update(context.Background()); err != nil {
		t.Fatalf("update after destroy returned %v", err)
	}
}
