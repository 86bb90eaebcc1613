// Package browsertest provides a scripted BrowserSession so the portal use
// cases can be exercised without a real browser.
package browsertest

import (
	"context"
	"fmt"
	"time"

	"satellite-agent/internal/application/port/output"
)

var (
	_ output.BrowserSession = (*ScriptedSession)(nil)
	_ output.BrowserFactory = (*Factory)(nil)
)

// ScriptedSession records every interaction in Calls and answers probes from
// canned data. Any call whose key appears in FailOn returns that error.
type ScriptedSession struct {
	Calls []string

	PageTexts    map[string]bool   // answers HasText and WaitText
	HTMLByQuery  map[string]string // answers HTML
	FailOn       map[string]error  // "verb:arg" -> error
	DownloadPath string
	DownloadErr  error
	URL          string
	Closed       int
}

func NewSession() *ScriptedSession {
	return &ScriptedSession{
		PageTexts:   map[string]bool{},
		HTMLByQuery: map[string]string{},
		FailOn:      map[string]error{},
	}
}

func (s *ScriptedSession) record(verb, arg string) error {
	call := verb
	if arg != "" {
		call = verb + ":" + arg
	}
	s.Calls = append(s.Calls, call)
	if err, ok := s.FailOn[call]; ok {
		return err
	}
	return s.FailOn[verb]
}

func (s *ScriptedSession) Navigate(ctx context.Context, url string) error {
	s.URL = url
	return s.record("navigate", url)
}

func (s *ScriptedSession) Click(ctx context.Context, selector string) error {
	return s.record("click", selector)
}

func (s *ScriptedSession) ClickText(ctx context.Context, text string) error {
	return s.record("clickText", text)
}

func (s *ScriptedSession) Fill(ctx context.Context, selector, text string) error {
	return s.record("fill", selector+"="+text)
}

func (s *ScriptedSession) PressEnter(ctx context.Context) error {
	return s.record("pressEnter", "")
}

func (s *ScriptedSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return s.record("waitVisible", selector)
}

func (s *ScriptedSession) WaitText(ctx context.Context, text string, timeout time.Duration) error {
	if err := s.record("waitText", text); err != nil {
		return err
	}
	if !s.PageTexts[text] {
		return fmt.Errorf("text %q never appeared", text)
	}
	return nil
}

func (s *ScriptedSession) HasText(ctx context.Context, text string) (bool, error) {
	if err := s.record("hasText", text); err != nil {
		return false, err
	}
	return s.PageTexts[text], nil
}

func (s *ScriptedSession) HTML(ctx context.Context, selector string) (string, error) {
	if err := s.record("html", selector); err != nil {
		return "", err
	}
	h, ok := s.HTMLByQuery[selector]
	if !ok {
		return "", fmt.Errorf("no element matches %q", selector)
	}
	return h, nil
}

func (s *ScriptedSession) WaitDownload(ctx context.Context, dir string, timeout time.Duration, trigger func() error) (string, error) {
	if err := s.record("waitDownload", dir); err != nil {
		return "", err
	}
	if err := trigger(); err != nil {
		return "", err
	}
	if s.DownloadErr != nil {
		return "", s.DownloadErr
	}
	return s.DownloadPath, nil
}

func (s *ScriptedSession) Screenshot(ctx context.Context) ([]byte, error) {
	if err := s.record("screenshot", ""); err != nil {
		return nil, err
	}
	return []byte("jpeg-bytes"), nil
}

func (s *ScriptedSession) CurrentURL() string { return s.URL }

func (s *ScriptedSession) Alive() bool { return s.Closed == 0 }

func (s *ScriptedSession) Close() { s.Closed++ }

// Factory hands out a preconfigured session. When Session is nil a fresh
// one is created on first use and reused afterwards.
type Factory struct {
	Session *ScriptedSession
	Err     error
	Created int
}

func (f *Factory) NewSession(ctx context.Context) (output.BrowserSession, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.Created++
	if f.Session == nil {
		f.Session = NewSession()
	}
	return f.Session, nil
}
