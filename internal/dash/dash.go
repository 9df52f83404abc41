// Package dash is the terminal host for the widget dashboard: it owns the
// grid layout, mounts widgets from the configured layout through the
// registry, and repaints when widgets invalidate their surfaces.
package dash

import (
	tea "github.com/charmbracelet/bubbletea"

	"zoe/internal/config"
	"zoe/internal/widget"
	"zoe/internal/widgets"
)

// Run starts the dashboard TUI and blocks until the user quits. All widget
// instances are destroyed before it returns.
func Run(cfg *config.Config, reg *widget.Registry, deps widgets.Deps) error {
	m := newDashModel(cfg, reg, deps)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	// Quit paths inside the model already unmounted; this covers error exits.
	m.shutdown()
	return err
}
