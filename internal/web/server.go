// Package web serves the read-only web mirror of the dashboard. It mounts its
// own headless widget instances from the configured layout and streams their
// rendered state to browsers over datastar SSE, so a phone on the couch sees
// the same tiles as the kitchen display.
//
// The mirror never writes: no list edits, no playback control, no voice. That
// stays on the terminal host and the backend's own clients.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"zoe/internal/config"
	"zoe/internal/widget"
	"zoe/internal/widgets"
)

//go:embed templates/*.html
var assetsFS embed.FS

type ServerConfig struct {
	Addr   string
	Config *config.Config
	Reg    *widget.Registry
	Deps   widgets.Deps
	Log    *zap.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *zap.Logger

	hub *hub

	mu    sync.Mutex
	tiles []*tile

	ctx    context.Context
	cancel context.CancelFunc
}

// tile is one headless widget mount.
type tile struct {
	Type    string
	Title   string
	widget  widget.Widget
	surface *mirrorSurface
	err     error
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Config == nil {
		return nil, errors.New("web: config is nil")
	}
	if cfg.Reg == nil {
		return nil, errors.New("web: registry is nil")
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	tmpl, err := template.New("base").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		tmpl:   tmpl,
		log:    cfg.Log,
		hub:    newHub(),
		ctx:    ctx,
		cancel: cancel,
	}
	s.mountAll()
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Close destroys every mounted widget. The server is done after this.
func (s *Server) Close() {
	s.mu.Lock()
	tiles := s.tiles
	s.tiles = nil
	s.mu.Unlock()
	for _, t := range tiles {
		if t.widget != nil {
			_ = t.widget.Destroy()
		}
		t.surface.release()
	}
	s.cancel()
}

func (s *Server) mountAll() {
	layout := s.cfg.Config.Layout
	if len(layout) == 0 {
		layout = config.DefaultLayout()
	}
	for _, slot := range layout {
		t := &tile{Type: slot.Type, Title: slot.Title, surface: newMirrorSurface(s.hub)}
		opts := widget.Options{Title: slot.Title, Params: slot.Param}
		w, err := s.cfg.Reg.New(slot.Type, opts)
		if err != nil {
			t.err = err
			s.log.Warn("mirror widget unavailable", zap.String("type", slot.Type), zap.Error(err))
			s.tiles = append(s.tiles, t)
			continue
		}
		if err := w.Init(s.ctx, t.surface, opts); err != nil {
			t.err = err
			_ = w.Destroy()
			s.tiles = append(s.tiles, t)
			continue
		}
		t.widget = w
		s.tiles = append(s.tiles, t)
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /", s.handleHome)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type pageVM struct {
	Now     string
	Backend string
	Tiles   []tileVM
}

type tileVM struct {
	Type  string
	Title string
	Body  string
	Err   bool
}

func (s *Server) pageVM() pageVM {
	vm := pageVM{
		Now:     time.Now().Format(time.RFC3339),
		Backend: s.cfg.Config.BackendURL,
	}
	s.mu.Lock()
	tiles := append([]*tile(nil), s.tiles...)
	s.mu.Unlock()
	for _, t := range tiles {
		tv := tileVM{Type: t.Type, Title: t.Title}
		switch {
		case t.err != nil:
			tv.Body = fmt.Sprintf("%s unavailable", t.Type)
			tv.Err = true
		case t.widget != nil:
			tv.Body = plainRender(t.widget)
		}
		vm.Tiles = append(vm.Tiles, tv)
	}
	return vm
}

// plainRender strips terminal styling so the browser gets clean text. The
// widgets render for a terminal; the mirror reuses that output verbatim
// inside <pre> blocks.
func plainRender(w widget.Widget) string {
	return xansi.Strip(w.Render())
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	html, err := s.renderTemplate("dashboard.html", s.pageVM())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// handleEvents streams grid patches whenever any mirrored widget invalidates.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.hub.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			html, err := s.renderTemplate("grid", s.pageVM())
			if err != nil {
				continue
			}
			_ = sse.PatchElements(html,
				datastar.WithSelector("#zoe-grid"),
				datastar.WithMode(datastar.ElementPatchModeOuter))
		}
	}
}

// hub fans one "something changed" signal out to every connected browser.
// Per-subscriber channels are buffered and drops coalesce, same contract as
// the TUI's wake channel.
type hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: map[chan struct{}]struct{}{}}
}

func (h *hub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

func (h *hub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

// mirrorSurface is the headless surface behind a mirrored widget: fixed text
// bounds, invalidations forwarded to the hub.
type mirrorSurface struct {
	mu       sync.Mutex
	released bool
	hub      *hub
}

func newMirrorSurface(h *hub) *mirrorSurface {
	return &mirrorSurface{hub: h}
}

func (s *mirrorSurface) Invalidate() {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if !released {
		s.hub.broadcast()
	}
}

func (s *mirrorSurface) Bounds() (int, int) { return 60, 16 }

func (s *mirrorSurface) release() {
	s.mu.Lock()
	s.released = true
	s.mu.Unlock()
}
