package widgets

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"zoe/internal/voice"
	"zoe/internal/widget"
)

// OrbState is the orb's coarse life phase. Listening and Processing are
// sub-phases of an open chat; a user tap toggles Idle and ChatOpen, and
// Destroy forces a fully released state from anywhere.
type OrbState string

const (
	OrbIdle       OrbState = "idle"
	OrbChatOpen   OrbState = "chat"
	OrbListening  OrbState = "listening"
	OrbProcessing OrbState = "processing"
)

type chatMessage struct {
	Role string // "user" | "zoe" | "system"
	Text string
}

// Orb is the voice/chat widget. Exactly one voice transport is active per
// listening session: the realtime room on local networks, discrete HTTP chunk
// upload otherwise. The two never run concurrently on one instance.
type Orb struct {
	widget.Base
	deps Deps

	state          OrbState
	messages       []chatMessage
	transportName  string
	conversationID string

	stream       *voice.MediaStream
	listenCancel context.CancelFunc
	synthCancel  context.CancelFunc

	player Player
}

// Player plays synthesized reply audio. Nil when the host has no audio out.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

func NewOrb(deps Deps) widget.Factory {
	return NewOrbWithPlayer(deps, nil)
}

func NewOrbWithPlayer(deps Deps, player Player) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return &Orb{
			Base: widget.NewBase(widget.Descriptor{
				Type:        "orb",
				Version:     "2.1",
				DefaultSize: widget.SizeSmall,
				// Lifecycle-driven only; everything is event-driven.
				Capabilities: []string{"voice", "chat"},
			}),
			deps:   deps,
			state:  OrbIdle,
			player: player,
		}, nil
	}
}

func (w *Orb) Init(ctx context.Context, surface widget.Surface, opts widget.Options) error {
	if err := w.Bind(ctx, surface, nil); err != nil {
		return err
	}
	// Destroy must always force a full release, whatever phase we are in:
	// recorder tracks ended, room disconnected, synthesis cancelled.
	w.OnDestroy(w.releaseVoice)
	return nil
}

func (w *Orb) Update(ctx context.Context) error {
	if _, ok := w.Begin(); !ok {
		return nil
	}
	w.Invalidate()
	return nil
}

// State returns the current phase (snapshot).
func (w *Orb) State() OrbState {
	var s OrbState
	w.ReadState(func() { s = w.state })
	return s
}

// TransportName reports which voice path the last/current listening session
// used ("room" or "http"), empty before the first one.
func (w *Orb) TransportName() string {
	var s string
	w.ReadState(func() { s = w.transportName })
	return s
}

// Messages returns a snapshot of the chat log.
func (w *Orb) Messages() []chatMessage {
	var out []chatMessage
	w.ReadState(func() { out = append(out, w.messages...) })
	return out
}

// ToggleChat flips Idle and ChatOpen. A tap during Listening/Processing first
// abandons the in-flight session.
func (w *Orb) ToggleChat() {
	w.abandonListening()
	w.Mutate(func() {
		if w.state == OrbIdle {
			w.state = OrbChatOpen
		} else {
			w.state = OrbIdle
		}
	})
	w.Invalidate()
}

func (w *Orb) say(role, text string) {
	w.Mutate(func() {
		w.messages = append(w.messages, chatMessage{Role: role, Text: text})
		if len(w.messages) > 50 {
			w.messages = w.messages[len(w.messages)-50:]
		}
	})
	w.Invalidate()
}

// StartListening begins a voice capture session. Only valid while the chat is
// open; a missing capture capability is surfaced as a chat message, never as
// an error or a crash.
func (w *Orb) StartListening(ctx context.Context) {
	if w.State() != OrbChatOpen {
		return
	}
	if w.deps.VoiceSource == nil {
		w.say("system", "Voice input isn't available on this device.")
		return
	}

	lctx, cancel := context.WithCancel(ctx)
	stream, chunks, err := w.deps.VoiceSource.Open(lctx)
	if err != nil {
		cancel()
		w.say("system", "Couldn't start the microphone.")
		return
	}

	sess, err := w.deps.API.StartConversation(lctx, w.deviceID())
	if err != nil {
		// Still record locally; transcription will use the HTTP path with an
		// empty conversation and the backend will open one.
		sess = nil
	}
	transport := voice.Select(w.deps.API, sess)

	proceed := w.Mutate(func() {
		w.state = OrbListening
		w.stream = stream
		w.listenCancel = cancel
		w.transportName = transport.Name()
		if sess != nil {
			w.conversationID = sess.ConversationID
		}
	})
	if !proceed {
		cancel()
		stream.StopAll()
		return
	}
	w.Invalidate()

	go w.listenSession(lctx, transport, chunks)
}

// StopListening ends the capture; the transport then flushes and the session
// moves to Processing.
func (w *Orb) StopListening() {
	var stream *voice.MediaStream
	w.ReadState(func() { stream = w.stream })
	if stream != nil {
		stream.StopAll()
	}
}

func (w *Orb) listenSession(ctx context.Context, transport voice.Transport, chunks <-chan []byte) {
	text, err := transport.Run(ctx, chunks)

	w.Mutate(func() {
		if w.state == OrbListening {
			w.state = OrbProcessing
		}
	})
	w.Invalidate()

	if err != nil && text == "" {
		w.deps.logger().Debug("voice transport failed", zap.String("transport", transport.Name()), zap.Error(err))
		w.finishTurn("")
		return
	}
	if strings.TrimSpace(text) == "" {
		w.finishTurn("")
		return
	}
	w.say("user", text)

	reply, err := w.deps.API.SendChat(ctx, w.currentConversation(), text)
	if err != nil {
		w.say("system", "Zoe didn't answer. Try again in a moment.")
		w.finishTurn("")
		return
	}
	w.say("zoe", reply)
	w.finishTurn(reply)
}

// finishTurn closes the Processing phase, kicking off reply synthesis when
// audio out exists, and returns the orb to the open chat.
func (w *Orb) finishTurn(reply string) {
	w.releaseStream()

	if reply != "" && w.player != nil {
		sctx, cancel := context.WithCancel(context.Background())
		w.Mutate(func() { w.synthCancel = cancel })
		go func() {
			defer cancel()
			audio, err := w.deps.API.Synthesize(sctx, reply)
			if err == nil && len(audio) > 0 {
				_ = w.player.Play(sctx, audio)
			}
			w.Mutate(func() {
				if w.synthCancel != nil {
					w.synthCancel = nil
				}
			})
		}()
	}

	w.Mutate(func() {
		if w.state == OrbProcessing || w.state == OrbListening {
			w.state = OrbChatOpen
		}
	})
	w.Invalidate()
}

// SendText handles typed chat while the panel is open.
func (w *Orb) SendText(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" || w.State() != OrbChatOpen {
		return
	}
	w.say("user", text)
	w.Mutate(func() { w.state = OrbProcessing })
	w.Invalidate()
	go func() {
		reply, err := w.deps.API.SendChat(ctx, w.currentConversation(), text)
		if err != nil {
			w.say("system", "Zoe didn't answer. Try again in a moment.")
			w.finishTurn("")
			return
		}
		w.say("zoe", reply)
		w.finishTurn(reply)
	}()
}

func (w *Orb) currentConversation() string {
	var id string
	w.ReadState(func() { id = w.conversationID })
	return id
}

func (w *Orb) deviceID() string {
	if w.deps.Session == nil {
		return ""
	}
	return w.deps.Session.DeviceID()
}

func (w *Orb) abandonListening() {
	var cancel context.CancelFunc
	var stream *voice.MediaStream
	w.ReadState(func() {
		cancel = w.listenCancel
		stream = w.stream
	})
	if stream != nil {
		stream.StopAll()
	}
	if cancel != nil {
		cancel()
	}
	w.releaseStream()
}

func (w *Orb) releaseStream() {
	w.Mutate(func() {
		w.stream = nil
		w.listenCancel = nil
	})
}

// releaseVoice is the destroy path: stop media tracks, disconnect the room
// (via the listen context), cancel any in-flight synthesis.
func (w *Orb) releaseVoice() {
	var cancel, synth context.CancelFunc
	var stream *voice.MediaStream
	w.ReadState(func() {
		cancel = w.listenCancel
		synth = w.synthCancel
		stream = w.stream
	})
	if stream != nil {
		stream.StopAll()
	}
	if cancel != nil {
		cancel()
	}
	if synth != nil {
		synth()
	}
}

func (w *Orb) Render() string {
	width, height := w.Bounds()
	if width <= 0 {
		width = 30
	}

	var state OrbState
	var msgs []chatMessage
	w.ReadState(func() {
		state = w.state
		msgs = append(msgs, w.messages...)
	})

	var b strings.Builder
	switch state {
	case OrbIdle:
		b.WriteString(titleStyle.Render("◯ Zoe"))
		return b.String()
	case OrbListening:
		b.WriteString(alertStyle.Render("● Listening…"))
	case OrbProcessing:
		b.WriteString(mutedStyle.Render("◌ Thinking…"))
	default:
		b.WriteString(titleStyle.Render("◉ Zoe"))
	}

	max := 4
	if height > 3 {
		max = height - 2
	}
	start := 0
	if len(msgs) > max {
		start = len(msgs) - max
	}
	for _, m := range msgs[start:] {
		prefix := "  "
		switch m.Role {
		case "user":
			prefix = "> "
		case "system":
			prefix = "! "
		}
		b.WriteString("\n")
		b.WriteString(truncate(prefix+m.Text, width))
	}
	return b.String()
}

func (w *Orb) Destroy() error { return w.Close() }
