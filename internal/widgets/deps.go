// Package widgets contains the concrete dashboard tiles: the list-style
// family (tasks, shopping, personal, bucket, reminders, projects, dynamic
// lists), the read-only tiles (weather, events, journal, notes, system,
// clock), the music controller, and the voice orb.
package widgets

import (
	"go.uber.org/zap"

	"zoe/internal/api"
	"zoe/internal/config"
	"zoe/internal/localstore"
	"zoe/internal/push"
	"zoe/internal/session"
	"zoe/internal/voice"
)

// Deps bundles the shared collaborators injected into every widget factory.
// The push subscribers and Local may be nil (no realtime channel / no local
// store); widgets degrade rather than fail.
type Deps struct {
	API     *api.Client
	Session *session.Provider
	Local   *localstore.Store
	Push    *push.Subscriber
	Lists   *push.Subscriber // /api/lists/ws channel; list envelopes ride here
	Config  *config.Config
	Log     *zap.Logger

	// VoiceSource supplies audio capture for the orb. Nil means no capture
	// capability on this host.
	VoiceSource voice.Source
}

// listsPush is the channel list widgets subscribe on. Deployments without a
// dedicated lists socket fall back to the device channel.
func (d Deps) listsPush() *push.Subscriber {
	if d.Lists != nil {
		return d.Lists
	}
	return d.Push
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d Deps) userID() string {
	if d.Session == nil {
		return ""
	}
	return d.Session.UserID()
}
