package output

import (
	"context"
	"time"
)

// BrowserSession is one live browser page, borrowed for the duration of a
// single top-level operation (search or download). A session must not be
// used after Close and must not be shared across concurrent operations.
type BrowserSession interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	ClickText(ctx context.Context, text string) error
	Fill(ctx context.Context, selector, text string) error
	PressEnter(ctx context.Context) error

	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	WaitText(ctx context.Context, text string, timeout time.Duration) error
	HasText(ctx context.Context, text string) (bool, error)
	HTML(ctx context.Context, selector string) (string, error)

	// WaitDownload routes browser downloads into dir, runs trigger, then
	// blocks until the started download completes or timeout elapses. The
	// returned path points at the finished file; a partial file is never
	// reported as success.
	WaitDownload(ctx context.Context, dir string, timeout time.Duration, trigger func() error) (string, error)

	Screenshot(ctx context.Context) ([]byte, error)
	CurrentURL() string
	Alive() bool
	Close()
}

// BrowserFactory launches a fresh browser session.
type BrowserFactory interface {
	NewSession(ctx context.Context) (BrowserSession, error)
}
