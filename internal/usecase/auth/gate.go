// Package auth checks and satisfies the portal's sign-in requirement.
package auth

import (
	"context"
	"fmt"
	"time"

	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/domain/entity"
)

const (
	signInText    = "Sign in"
	signOutText   = "Sign out"
	loginButton   = "Login"
	usernameField = "input[name='username']"
	passwordField = "input[name='password']"

	usernameEnv = "COPERNICUS_USERNAME"
	passwordEnv = "COPERNICUS_PASSWORD"

	// Bound on the wait for the post-login marker.
	loginWait = 10 * time.Second
)

// Gate performs credential-based login when the current page asks for it.
// Authentication state is never cached: sessions expire server-side, so
// every operation probes the page again.
type Gate struct {
	cfg output.ConfigPort
	log output.LoggerPort
}

func NewGate(cfg output.ConfigPort, log output.LoggerPort) *Gate {
	return &Gate{cfg: cfg, log: log}
}

// NeedsLogin reports whether the page shows a sign-in affordance. It does
// not mutate the session.
func (g *Gate) NeedsLogin(ctx context.Context, s output.BrowserSession) bool {
	has, err := s.HasText(ctx, signInText)
	if err != nil {
		g.log.Warn("sign-in probe failed", "error", err)
		return false
	}
	return has
}

// Login submits the environment credentials and waits for the sign-out
// marker. Missing credentials fail before any page interaction; a marker
// that never appears surfaces as ErrLoginTimeout and is not retried.
func (g *Gate) Login(ctx context.Context, s output.BrowserSession) error {
	user := g.cfg.Get(usernameEnv)
	pass := g.cfg.Get(passwordEnv)
	if user == "" || pass == "" {
		return entity.ErrCredentialsMissing
	}

	if err := s.ClickText(ctx, signInText); err != nil {
		return fmt.Errorf("open sign-in form: %w", err)
	}
	if err := s.WaitVisible(ctx, usernameField, loginWait); err != nil {
		return fmt.Errorf("sign-in form did not render: %w", err)
	}
	if err := s.Fill(ctx, usernameField, user); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := s.Fill(ctx, passwordField, pass); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := s.ClickText(ctx, loginButton); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}

	if err := s.WaitText(ctx, signOutText, loginWait); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrLoginTimeout, err)
	}

	g.log.Info("logged in to portal")
	return nil
}
