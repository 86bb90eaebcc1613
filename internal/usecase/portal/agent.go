// Package portal wires the session, auth, query, extraction and download
// components into the two public operations.
package portal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"satellite-agent/internal/application/port/input"
	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/domain/entity"
	"satellite-agent/internal/usecase/auth"
	"satellite-agent/internal/usecase/download"
	"satellite-agent/internal/usecase/extract"
	"satellite-agent/internal/usecase/query"
	"satellite-agent/internal/usecase/session"
)

const (
	homeURL = "https://scihub.copernicus.eu/dhus/#/home"

	// DefaultDownloadDir is used when the caller passes an empty dir.
	DefaultDownloadDir = "./downloaded_images"
)

var _ input.PortalAgent = (*Agent)(nil)

// Agent drives one interactive search-and-download workflow per call. The
// borrowed session is released on every exit path; callers must serialize
// calls on one instance.
type Agent struct {
	sessions   *session.Manager
	gate       *auth.Gate
	translator *query.Translator
	extractor  *extract.Extractor
	downloader *download.Orchestrator
	log        output.LoggerPort
}

func NewAgent(
	sessions *session.Manager,
	gate *auth.Gate,
	translator *query.Translator,
	extractor *extract.Extractor,
	downloader *download.Orchestrator,
	log output.LoggerPort,
) *Agent {
	return &Agent{
		sessions:   sessions,
		gate:       gate,
		translator: translator,
		extractor:  extractor,
		downloader: downloader,
		log:        log,
	}
}

// Search runs the full portal workflow for one query and returns the
// extracted records in visual order. An empty result is not an error.
func (a *Agent) Search(ctx context.Context, q entity.SearchQuery) ([]entity.ProductRecord, error) {
	s, err := a.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer a.sessions.Release()

	if err := a.openPortal(ctx, s); err != nil {
		return nil, err
	}

	if err := a.translator.Apply(ctx, s, q); err != nil {
		a.snapshot(ctx, s, "search_failed")
		return nil, fmt.Errorf("apply query: %w", err)
	}

	return a.extractor.Extract(ctx, s), nil
}

// Download resolves one product id to a local file inside downloadDir,
// passing through the authentication gate first.
func (a *Agent) Download(ctx context.Context, productID, downloadDir string) (string, error) {
	if downloadDir == "" {
		downloadDir = DefaultDownloadDir
	}

	s, err := a.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer a.sessions.Release()

	if err := a.openPortal(ctx, s); err != nil {
		return "", &entity.DownloadError{ProductID: productID, Err: err}
	}

	return a.downloader.Fetch(ctx, s, productID, downloadDir)
}

// openPortal lands on the portal home page and logs in when the page asks
// for it. The sign-in probe runs on every operation; a prior login is never
// trusted.
func (a *Agent) openPortal(ctx context.Context, s output.BrowserSession) error {
	if err := s.Navigate(ctx, homeURL); err != nil {
		return fmt.Errorf("open portal: %w", err)
	}

	if a.gate.NeedsLogin(ctx, s) {
		if err := a.gate.Login(ctx, s); err != nil {
			a.snapshot(ctx, s, "login_failed")
			return err
		}
	}
	return nil
}

// snapshot saves a diagnostic screenshot next to the logs. Failures here
// are only logged.
func (a *Agent) snapshot(ctx context.Context, s output.BrowserSession, tag string) {
	img, err := s.Screenshot(ctx)
	if err != nil {
		a.log.Debug("diagnostic screenshot failed", "error", err)
		return
	}
	if err := os.MkdirAll("log", 0755); err != nil {
		return
	}
	path := filepath.Join("log", fmt.Sprintf("%s_%s.jpg", time.Now().Format("2006-01-02_15-04-05"), tag))
	if err := os.WriteFile(path, img, 0644); err != nil {
		a.log.Debug("could not save screenshot", "error", err)
		return
	}
	a.log.Info("saved diagnostic screenshot", "path", path)
}
