// Package session tracks the single signed-in identity. It is kept in
// memory only; a restart always starts signed out.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"condo/internal/core"
	applog "condo/internal/log"
)

var ErrNoIdentityForRole = errors.New("no identity for role")

// Directory lists the identities that may sign in.
type Directory interface {
	Snapshot() core.Snapshot
}

type Manager struct {
	mu      sync.RWMutex
	current *core.Identity

	directory Directory
	logger    *applog.Logger
}

func NewManager(directory Directory, logger *applog.Logger) *Manager {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Manager{directory: directory, logger: logger.WithComponent(applog.ComponentSession)}
}

// SignIn makes the first identity holding role current and returns the
// page it lands on. On error the session is left as it was.
func (m *Manager) SignIn(ctx context.Context, role core.Role) (core.Identity, core.Page, error) {
	if !role.IsValid() {
		return core.Identity{}, "", fmt.Errorf("sign in as %q: %w", role, ErrNoIdentityForRole)
	}

	snap := m.directory.Snapshot()
	for _, u := range snap.Users {
		if u.Role != role {
			continue
		}
		id := u
		m.mu.Lock()
		m.current = &id
		m.mu.Unlock()

		m.logger.InfoContext(ctx, "Signed in", applog.FieldRole, string(role), applog.FieldIdentity, id.ID)
		return id, core.LandingPage(role), nil
	}
	return core.Identity{}, "", fmt.Errorf("sign in as %s: %w", role, ErrNoIdentityForRole)
}

func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev != nil {
		m.logger.InfoContext(ctx, "Signed out", applog.FieldIdentity, prev.ID)
	}
}

// Current returns the signed-in identity, false when signed out.
func (m *Manager) Current() (core.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return core.Identity{}, false
	}
	return *m.current, true
}
