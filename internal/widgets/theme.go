package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Tile styling shared by all widgets.
//
// Widgets must stay readable on both light and dark terminals, so colors are
// adaptive and "faint" is avoided on light backgrounds (it tends to become
// illegible there).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "243")
	colorAccent = ac("27", "75")
	colorDone   = ac("28", "78")
	colorAlert  = ac("124", "203")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	doneStyle  = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	alertStyle = lipgloss.NewStyle().Foreground(colorAlert)
)

// truncate clips s to width terminal cells, ANSI-aware.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

// tileHeader renders the widget title line.
func tileHeader(title string, width int) string {
	return truncate(titleStyle.Render(title), width)
}

// emptyState is the fallback body when a widget has nothing to show (fresh
// mount, failed fetch, empty backend list).
func emptyState(msg string) string {
	if strings.TrimSpace(msg) == "" {
		msg = "No items yet"
	}
	return mutedStyle.Render(msg)
}
