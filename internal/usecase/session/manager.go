// Package session owns the single browser-session slot of one agent
// instance.
package session

import (
	"context"
	"fmt"

	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/domain/entity"
)

// Manager hands out at most one live session at a time. It does no internal
// locking: callers must serialize search/download operations on one agent
// instance.
type Manager struct {
	factory output.BrowserFactory
	log     output.LoggerPort
	active  output.BrowserSession
}

func NewManager(factory output.BrowserFactory, log output.LoggerPort) *Manager {
	return &Manager{factory: factory, log: log}
}

// Acquire returns the live active session or starts a new one. On start
// failure no session is marked active.
func (m *Manager) Acquire(ctx context.Context) (output.BrowserSession, error) {
	if m.active != nil && m.active.Alive() {
		m.log.Debug("reusing active browser session")
		return m.active, nil
	}

	s, err := m.factory.NewSession(ctx)
	if err != nil {
		m.active = nil
		return nil, fmt.Errorf("%w: %v", entity.ErrSessionStart, err)
	}

	m.log.Debug("started browser session")
	m.active = s
	return s, nil
}

// Release ends the active session and clears the slot. Idempotent, so it is
// safe on deferred paths that may run after an explicit release.
func (m *Manager) Release() {
	if m.active == nil {
		return
	}
	m.active.Close()
	m.active = nil
	m.log.Debug("released browser session")
}
