// Package session is the auth/session provider widgets consume. It fronts the
// local store's session scalars and hands the API client its X-Session-ID
// value. Widgets never talk to the local store for auth directly.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"zoe/internal/localstore"
)

type Provider struct {
	mu    sync.RWMutex
	store *localstore.Store

	userID   string
	token    string
	deviceID string
}

// New loads session state from the local store and generates a device id on
// first run so the backend can distinguish this machine's voice/media
// sessions.
func New(store *localstore.Store) *Provider {
	p := &Provider{store: store}
	if store != nil {
		p.userID, _ = store.Get(localstore.KeyUserID)
		p.token, _ = store.Get(localstore.KeyAuthToken)
		p.deviceID, _ = store.Get(localstore.KeyDeviceID)
	}
	if strings.TrimSpace(p.deviceID) == "" {
		p.deviceID = uuid.NewString()
		if store != nil {
			// Best-effort persist; a fresh id next run is harmless.
			_ = store.Set(localstore.KeyDeviceID, p.deviceID)
		}
	}
	return p
}

func (p *Provider) UserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userID
}

// Token is the session token sent as X-Session-ID. Empty when logged out.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *Provider) DeviceID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.deviceID
}

func (p *Provider) LoggedIn() bool {
	return strings.TrimSpace(p.Token()) != ""
}

func (p *Provider) SetLogin(userID, token string) error {
	p.mu.Lock()
	p.userID = strings.TrimSpace(userID)
	p.token = strings.TrimSpace(token)
	store := p.store
	p.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Set(localstore.KeyUserID, userID); err != nil {
		return err
	}
	return store.Set(localstore.KeyAuthToken, token)
}

func (p *Provider) Logout() error {
	p.mu.Lock()
	p.userID = ""
	p.token = ""
	store := p.store
	p.mu.Unlock()

	if store == nil {
		return nil
	}
	if err := store.Delete(localstore.KeyUserID); err != nil {
		return err
	}
	return store.Delete(localstore.KeyAuthToken)
}
