package widgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zoe/internal/api"
	"zoe/internal/push"
	"zoe/internal/widget"
)

// Music controls and mirrors backend playback. It is a realtime widget:
// media_play/media_pause envelopes flip the displayed state immediately, and
// the 30s poll only runs while the push channel is down.
type Music struct {
	widget.Base
	deps Deps

	playback *api.Playback
	loaded   bool
}

func NewMusic(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Music{
			Base: widget.NewBase(widget.Descriptor{
				Type:           "music",
				Version:        "1.2",
				DefaultSize:    widget.SizeMedium,
				UpdateInterval: 30 * time.Second,
				Capabilities:   []string{"realtime", "media"},
			}),
			deps: deps,
		}, nil
	}
}

func (w *Music) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, w.pollTick); err != nil {
		return err
	}
	if w.deps.Push != nil {
		off := w.deps.Push.Subscribe(push.TypeMediaPlay, func(push.Envelope) { w.setPlaying(true) })
		w.OnDestroy(off)
		off = w.deps.Push.Subscribe(push.TypeMediaPause, func(push.Envelope) { w.setPlaying(false) })
		w.OnDestroy(off)
	}
	go func() { _ = w.Update(ctx) }()
	return nil
}

func (w *Music) pollTick(ctx context.Context) error {
	if w.deps.Push != nil && w.deps.Push.Connected() {
		return nil
	}
	return w.Update(ctx)
}

func (w *Music) setPlaying(playing bool) {
	changed := w.Mutate(func() {
		if w.playback == nil {
			w.playback = &api.Playback{}
		}
		w.playback.Playing = playing
	})
	if changed {
		w.Invalidate()
	}
}

func (w *Music) Update(ctx context.Context) error {
	gen, ok := w.Begin()
	if !ok {
		return nil
	}
	pb, err := w.deps.API.MusicStatus(ctx)
	if err != nil {
		w.Invalidate()
		return nil
	}
	w.Commit(gen, func() {
		w.playback = pb
		w.loaded = true
	})
	w.Invalidate()
	return nil
}

// TogglePlayback is the optimistic play/pause control: the tile flips first,
// the backend call follows best-effort.
func (w *Music) TogglePlayback(ctx context.Context) {
	var nowPlaying bool
	w.Mutate(func() {
		if w.playback == nil {
			w.playback = &api.Playback{}
		}
		w.playback.Playing = !w.playback.Playing
		nowPlaying = w.playback.Playing
	})
	w.Invalidate()
	go func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		var err error
		if nowPlaying {
			err = w.deps.API.MusicPlay(pctx)
		} else {
			err = w.deps.API.MusicPause(pctx)
		}
		if err != nil {
			w.deps.logger().Warn("playback toggle failed")
		}
	}()
}

// NextTrack skips to the next track. There is nothing to flip optimistically
// (track metadata lives on the backend), so the tile refreshes after the call.
func (w *Music) NextTrack(ctx context.Context) {
	go func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := w.deps.API.MusicNext(pctx); err != nil {
			w.deps.logger().Warn("next track failed")
			return
		}
		_ = w.Update(pctx)
	}()
}

func (w *Music) Render() string {
	width, _ := w.Bounds()
	if width <= 0 {
		width = 40
	}

	var pb *api.Playback
	var loaded bool
	w.ReadState(func() {
		if w.playback != nil {
			cp := *w.playback
			pb = &cp
		}
		loaded = w.loaded
	})

	var b strings.Builder
	b.WriteString(tileHeader("Music", width))
	b.WriteString("\n")
	if pb == nil {
		if loaded {
			b.WriteString(emptyState("Nothing playing"))
		} else {
			b.WriteString(mutedStyle.Render("Loading…"))
		}
		return b.String()
	}

	icon := "▮▮"
	if pb.Playing {
		icon = "▶"
	}
	track := pb.Track
	if strings.TrimSpace(track) == "" {
		track = "Untitled"
	}
	b.WriteString(truncate(fmt.Sprintf("%s %s", icon, track), width))
	if pb.Artist != "" {
		b.WriteString("\n")
		b.WriteString(truncate(mutedStyle.Render(pb.Artist), width))
	}
	if pb.Duration > 0 {
		b.WriteString("\n")
		b.WriteString(truncate(mutedStyle.Render(fmt.Sprintf("%s / %s",
			fmtSeconds(pb.Position), fmtSeconds(pb.Duration))), width))
	}
	return b.String()
}

func fmtSeconds(s float64) string {
	d := time.Duration(s) * time.Second
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (w *Music) Destroy() error { return w.Close() }
