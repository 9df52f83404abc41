package widgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"zoe/internal/widget"
)

// System shows local machine health (the dashboard usually runs on a small
// touchscreen Pi, where thermal and memory pressure are worth a glance). It
// never talks to the backend.
type System struct {
	widget.Base

	cpuPct  float64
	memPct  float64
	uptime  time.Duration
	sampled bool
}

func NewSystem(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &System{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "system",
				Version:        "1.0",
				DefaultSize:    widget.SizeSmall,
				UpdateInterval: 5 * time.Second,
				Capabilities:   []string{"local"},
			}),
		}, nil
	}
}

func (w *System) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, w.Update); err != nil {
		return err
	}
	go func() { _ = w.Update(ctx) }()
	return nil
}

func (w *System) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil
	}

	var cpuPct, memPct float64
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		cpuPct = pcts[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		memPct = vm.UsedPercent
	}
	var up time.Duration
	if secs, err := host.UptimeWithContext(ctx); err == nil {
		up = time.Duration(secs) * time.Second
	}

	w.Commit(gen, func() {
		w.cpuPct = cpuPct
		w.memPct = memPct
		w.uptime = up
		w.sampled = true
	})
	w.Invalidate()
	return nil
}

func (w *System) Render() string {
	width, _ := w.Bounds()
	if width <= 0 {
		width = 30
	}

	var cpuPct, memPct float64
	var up time.Duration
	var sampled bool
	w.ReadState(func() {
		cpuPct, memPct, up, sampled = w.cpuPct, w.memPct, w.uptime, w.sampled
	})

	var b strings.Builder
	b.WriteString(tileHeader("System", width))
	b.WriteString("\n")
	if !sampled {
		b.WriteString(mutedStyle.Render("Sampling…"))
		return b.String()
	}
	cpuLine := fmt.Sprintf("CPU %3.0f%%", cpuPct)
	if cpuPct >= 90 {
		cpuLine = alertStyle.Render(cpuLine)
	}
	memLine := fmt.Sprintf("MEM %3.0f%%", memPct)
	if memPct >= 90 {
		memLine = alertStyle.Render(memLine)
	}
	b.WriteString(truncate(cpuLine+"  "+memLine, width))
	if up > 0 {
		b.WriteString("\n")
		b.WriteString(truncate(mutedStyle.Render("up "+fmtUptime(up)), width))
	}
	return b.String()
}

func fmtUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh %dm", hours, int(d.Minutes())%60)
}

func (w *System) Destroy() error { return w.Close() }
