package widgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"zoe/internal/api"
	"zoe/internal/config"
	"zoe/internal/widget"
)

// Locator resolves the device's current location. The TUI wires a real
// implementation when one exists (GPS hat, IP geolocation); nil means "saved
// location only".
type Locator interface {
	Locate(ctx context.Context) (*config.Location, error)
}

// locateTimeout bounds the live lookup. This is the one deliberately explicit
// timeout in the widget layer: a slow locator must not hold up the first
// weather render when a saved location is available.
const locateTimeout = 3 * time.Second

type Weather struct {
	widget.Base
	deps    Deps
	locator Locator

	current  *api.Weather
	forecast []api.ForecastDay
	failed   bool
}

func NewWeather(deps Deps) widget.Factory {
	return NewWeatherWithLocator(deps, nil)
}

func NewWeatherWithLocator(deps Deps, loc Locator) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Weather{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "weather",
				Version:        "2.0",
				DefaultSize:    widget.SizeMedium,
				UpdateInterval: 10 * time.Minute,
			}),
			deps:    deps,
			locator: loc,
		}, nil
	}
}

func (w *Weather) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, w.Update); err != nil {
		return err
	}
	go func() { _ = w.Update(ctx) }()
	return nil
}

// location resolves where to fetch weather for: live lookup first (bounded by
// locateTimeout), then the saved config location. A linear fallback chain.
func (w *Weather) location(ctx context.Context) (*config.Location, bool) {
	if w.locator != nil {
		lctx, cancel := context.WithTimeout(ctx, locateTimeout)
		loc, err := w.locator.Locate(lctx)
		cancel()
		if err == nil && loc != nil {
			return loc, true
		}
		w.deps.logger().Debug("live location lookup failed, using saved", zap.Error(err))
	}
	if w.deps.Config != nil && w.deps.Config.Location != nil {
		return w.deps.Config.Location, true
	}
	return nil, false
}

func (w *Weather) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil
	}
	loc, ok := w.location(ctx)
	if !ok {
		w.Commit(gen, func() { w.failed = true })
		w.Invalidate()
		return nil
	}

	cur, err := w.deps.API.CurrentWeather(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		w.Commit(gen, func() { w.failed = w.current == nil })
		w.Invalidate()
		return nil
	}
	days, err := w.deps.API.Forecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		days = nil // forecast is optional decoration
	}
	w.Commit(gen, func() {
		w.current = cur
		w.forecast = days
		w.failed = false
	})
	w.Invalidate()
	return nil
}

func (w *Weather) Render() string {
	width, _ := w.Bounds()
	if width <= 0 {
		width = 40
	}

	var cur *api.Weather
	var days []api.ForecastDay
	var failed bool
	w.ReadState(func() {
		cur = w.current
		days = append(days, w.forecast...)
		failed = w.failed
	})

	var b strings.Builder
	b.WriteString(tileHeader("Weather", width))
	b.WriteString("\n")
	if cur == nil {
		if failed {
			b.WriteString(emptyState("Weather unavailable"))
		} else {
			b.WriteString(mutedStyle.Render("Loading…"))
		}
		return b.String()
	}

	loc := cur.Location
	if strings.TrimSpace(loc) == "" {
		loc = "Unknown"
	}
	cond := cur.Condition
	if strings.TrimSpace(cond) == "" {
		cond = "–"
	}
	b.WriteString(truncate(fmt.Sprintf("%.0f° %s", cur.Temperature, cond), width))
	b.WriteString("\n")
	b.WriteString(truncate(mutedStyle.Render(fmt.Sprintf("%s · feels %.0f° · wind %.0f", loc, cur.FeelsLike, cur.WindSpeed)), width))
	for i, d := range days {
		if i >= 3 {
			break
		}
		b.WriteString("\n")
		b.WriteString(truncate(mutedStyle.Render(fmt.Sprintf("%s  %.0f°/%.0f° %s", d.Date, d.High, d.Low, d.Condition)), width))
	}
	return b.String()
}

func (w *Weather) Destroy() error { return w.Close() }
