package dash

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"zoe/internal/config"
	"zoe/internal/widget"
	"zoe/internal/widgets"
)

// invalidateMsg is posted when any mounted widget reports changed state.
// Invalidations coalesce in the wake channel, so a burst of them costs one
// repaint.
type invalidateMsg struct{}

// slot is one cell of the dashboard grid. The surface belongs to this slot for
// its whole life; widgets come and go through mount/unmount.
type slot struct {
	spec    config.LayoutSlot
	surface *slotSurface
	widget  widget.Widget
	err     error
}

type dashModel struct {
	reg  *widget.Registry
	deps widgets.Deps
	cfg  *config.Config
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
	focus  int
	slots  []*slot
	wake   chan struct{}

	picking bool
	picker  list.Model
}

func newDashModel(cfg *config.Config, reg *widget.Registry, deps widgets.Deps) *dashModel {
	ctx, cancel := context.WithCancel(context.Background())
	m := &dashModel{
		reg:    reg,
		deps:   deps,
		cfg:    cfg,
		log:    deps.Log,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.picker = newPicker(reg)

	layout := cfg.Layout
	if len(layout) == 0 {
		layout = config.DefaultLayout()
	}
	for _, spec := range layout {
		s := &slot{spec: spec, surface: newSlotSurface(m.wake)}
		m.slots = append(m.slots, s)
	}
	return m
}

func (m *dashModel) Init() tea.Cmd {
	for _, s := range m.slots {
		m.mount(s)
	}
	return m.waitWake()
}

// waitWake blocks on the shared wake channel and turns it into a tea message.
func (m *dashModel) waitWake() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.wake:
			return invalidateMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// mount instantiates and initializes the slot's widget. Init runs exactly once
// per instance; a failed mount leaves the error on the slot for rendering and
// never retries on its own.
func (m *dashModel) mount(s *slot) {
	w, err := m.reg.New(s.spec.Type, widget.Options{Title: s.spec.Title, Params: s.spec.Param})
	if err != nil {
		s.err = err
		m.log.Warn("widget unavailable", zap.String("type", s.spec.Type), zap.Error(err))
		return
	}
	if err := w.Init(m.ctx, s.surface, widget.Options{Title: s.spec.Title, Params: s.spec.Param}); err != nil {
		s.err = err
		_ = w.Destroy()
		m.log.Warn("widget init failed", zap.String("type", s.spec.Type), zap.Error(err))
		return
	}
	s.widget = w
	s.err = nil
}

// unmount destroys the slot's widget, exactly once, and leaves the slot empty.
func (m *dashModel) unmount(s *slot) {
	if s.widget == nil {
		return
	}
	if err := s.widget.Destroy(); err != nil {
		m.log.Warn("widget destroy failed", zap.String("type", s.spec.Type), zap.Error(err))
	}
	s.widget = nil
}

// swap replaces the widget type in a slot. The outgoing instance is fully
// destroyed before the new one mounts, so the surface never serves two
// widgets at once.
func (m *dashModel) swap(s *slot, typ string) {
	m.unmount(s)
	s.spec = config.LayoutSlot{Type: typ}
	m.mount(s)
}

func (m *dashModel) shutdown() {
	for _, s := range m.slots {
		m.unmount(s)
		s.surface.release()
	}
	m.cancel()
}

func (m *dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.picker.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case invalidateMsg:
		// Repaint happens on return; just rearm the listener.
		return m, m.waitWake()

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.shutdown()
			return m, tea.Quit
		case "tab", "right", "l":
			if len(m.slots) > 0 {
				m.focus = (m.focus + 1) % len(m.slots)
			}
			return m, nil
		case "shift+tab", "left", "h":
			if len(m.slots) > 0 {
				m.focus = (m.focus - 1 + len(m.slots)) % len(m.slots)
			}
			return m, nil
		case "r":
			// Manual refresh of every mounted widget.
			for _, s := range m.slots {
				if s.widget != nil {
					go func(w widget.Widget) { _ = w.Update(m.ctx) }(s.widget)
				}
			}
			return m, nil
		case "w":
			m.picking = true
			return m, nil
		case " ", "enter":
			m.interact()
			return m, nil
		case "n":
			if w, ok := m.focusedWidget().(*widgets.Music); ok {
				w.NextTrack(m.ctx)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *dashModel) focusedWidget() widget.Widget {
	if m.focus < 0 || m.focus >= len(m.slots) {
		return nil
	}
	return m.slots[m.focus].widget
}

// interact pokes the focused widget. What that means depends on the type:
// the music tile toggles playback, the orb opens/closes its chat.
func (m *dashModel) interact() {
	switch w := m.focusedWidget().(type) {
	case *widgets.Music:
		w.TogglePlayback(m.ctx)
	case *widgets.Orb:
		w.ToggleChat()
	}
}

func (m *dashModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.picking = false
		return m, nil
	case "enter":
		if it, ok := m.picker.SelectedItem().(typeItem); ok && m.focus < len(m.slots) {
			m.swap(m.slots[m.focus], it.name)
			m.layout()
		}
		m.picking = false
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *dashModel) View() string {
	header := lipgloss.NewStyle().Bold(true).
		Render(fmt.Sprintf("Zoe  Backend=%s  User=%s", m.cfg.BackendURL, m.userLabel()))

	if m.picking {
		return strings.Join([]string{header, m.picker.View(),
			footerStyle.Render("enter: mount  esc: cancel")}, "\n\n")
	}

	footer := footerStyle.Render("tab: focus  enter/space: interact  n: next track  w: widgets  r: refresh  q: quit")
	return strings.Join([]string{header, m.grid(), footer}, "\n\n")
}

func (m *dashModel) userLabel() string {
	if m.deps.Session == nil || !m.deps.Session.LoggedIn() {
		return "-"
	}
	return m.deps.Session.UserID()
}

var footerStyle = lipgloss.NewStyle().Faint(true)

func (m *dashModel) tileStyle(focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if focused {
		st = st.BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "135"})
	}
	return st
}

// gridColumns is fixed at two: the dashboard targets a hung kitchen display,
// not arbitrary window shapes.
const gridColumns = 2

func tileRows(size widget.Size) int {
	switch size {
	case widget.SizeSmall:
		return 4
	case widget.SizeLarge:
		return 12
	case widget.SizeXLarge:
		return 16
	default:
		return 8
	}
}

func (m *dashModel) slotSize(s *slot) widget.Size {
	if s.spec.Size != "" {
		return widget.Size(s.spec.Size)
	}
	if s.widget != nil {
		return s.widget.Descriptor().DefaultSize
	}
	return widget.SizeMedium
}

// layout assigns bounds to every surface from the current terminal size.
// Widgets read their bounds during Render; a resize therefore takes effect on
// the next frame without any per-widget resize protocol.
func (m *dashModel) layout() {
	w := m.width
	if w < 60 {
		w = 60
	}
	colWidth := w/gridColumns - 4 // border + padding
	for _, s := range m.slots {
		s.surface.setBounds(colWidth, tileRows(m.slotSize(s)))
	}
}

func (m *dashModel) grid() string {
	if len(m.slots) == 0 {
		return footerStyle.Render("No widgets configured.")
	}
	var rows []string
	for i := 0; i < len(m.slots); i += gridColumns {
		var cells []string
		for j := i; j < i+gridColumns && j < len(m.slots); j++ {
			cells = append(cells, m.renderSlot(m.slots[j], j == m.focus))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *dashModel) renderSlot(s *slot, focused bool) string {
	w, h := s.surface.Bounds()
	if w <= 0 {
		w = 36
	}
	if h <= 0 {
		h = 8
	}
	var body string
	switch {
	case s.err != nil:
		body = footerStyle.Render(fmt.Sprintf("%s unavailable", s.spec.Type))
	case s.widget == nil:
		body = footerStyle.Render("empty")
	default:
		body = s.widget.Render()
	}
	return m.tileStyle(focused).Width(w).Height(h).Render(body)
}

type typeItem struct{ name string }

func (i typeItem) FilterValue() string { return i.name }
func (i typeItem) Title() string       { return i.name }
func (i typeItem) Description() string { return "widget type" }

func newPicker(reg *widget.Registry) list.Model {
	var items []list.Item
	for _, typ := range reg.Types() {
		items = append(items, typeItem{name: typ})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Widgets"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	// ESC means "cancel the picker" here, never "quit the app".
	l.KeyMap.Quit.SetKeys("q")
	return l
}
