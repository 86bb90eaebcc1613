package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"satellite-agent/internal/application/port/output"
)

var (
	_ output.BrowserFactory = (*Factory)(nil)
	_ output.BrowserSession = (*Session)(nil)
)

var ErrInvalidURL = errors.New("invalid URL")

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 500 * time.Millisecond

	// Elements the portal renders clickable text into.
	textSelectors = "button, a, [role='button'], span, label, li, div"
)

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
}

func DefaultConfig() Config {
	return Config{
		Headless:   true,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  true,
		DevTools:   false,
	}
}

// Factory launches one Chrome instance per session so that Close can kill
// the whole process tree deterministically.
type Factory struct {
	cfg Config
}

func NewFactory(cfg Config) *Factory {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Factory{cfg: cfg}
}

func (f *Factory) NewSession(ctx context.Context) (output.BrowserSession, error) {
	l := launcher.New().
		Headless(f.cfg.Headless).
		Devtools(f.cfg.DevTools).
		NoSandbox(f.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-setuid-sandbox")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(f.cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  f.cfg.Timeout,
	}, nil
}

// Session wraps one rod page plus the browser process behind it.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	closed   bool
}

func (s *Session) Navigate(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if err := s.page.Context(ctx).Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := s.page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	s.page.WaitIdle(5 * time.Second)
	return nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	var el *rod.Element
	var err error

	if strings.HasPrefix(selector, "/") {
		el, err = s.page.Context(ctx).Timeout(s.timeout).ElementX(selector)
	} else {
		el, err = s.page.Context(ctx).Timeout(s.timeout).Element(selector)
	}
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %s: %w", selector, err)
	}

	s.page.WaitIdle(2 * time.Second)
	return nil
}

func (s *Session) ClickText(ctx context.Context, text string) error {
	el, err := s.page.Context(ctx).Timeout(s.timeout).ElementR(textSelectors, "/"+regexp.QuoteMeta(text)+"/")
	if err != nil {
		return fmt.Errorf("element with text %q not found: %w", text, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click on %q failed: %w", text, err)
	}

	s.page.WaitIdle(2 * time.Second)
	return nil
}

func (s *Session) Fill(ctx context.Context, selector, text string) error {
	el, err := s.page.Context(ctx).Timeout(s.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %s: %w", selector, err)
	}

	return nil
}

func (s *Session) PressEnter(ctx context.Context) error {
	el, err := s.page.Context(ctx).Timeout(s.timeout).Element("body")
	if err != nil {
		return fmt.Errorf("body not found: %w", err)
	}
	if err := el.Input("\r"); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	s.page.WaitIdle(1 * time.Second)
	return nil
}

func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.timeout
	}
	el, err := s.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element did not appear: %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element not visible: %s: %w", selector, err)
	}
	return nil
}

func (s *Session) WaitText(ctx context.Context, text string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.timeout
	}
	_, err := s.page.Context(ctx).Timeout(timeout).ElementR(textSelectors, "/"+regexp.QuoteMeta(text)+"/")
	if err != nil {
		return fmt.Errorf("text %q did not appear: %w", text, err)
	}
	return nil
}

func (s *Session) HasText(ctx context.Context, text string) (bool, error) {
	has, _, err := s.page.Context(ctx).HasR(textSelectors, "/"+regexp.QuoteMeta(text)+"/")
	if err != nil {
		return false, fmt.Errorf("text probe failed: %w", err)
	}
	return has, nil
}

func (s *Session) HTML(ctx context.Context, selector string) (string, error) {
	el, err := s.page.Context(ctx).Timeout(s.timeout).Element(selector)
	if err != nil {
		return "", fmt.Errorf("element not found: %s: %w", selector, err)
	}
	html, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %s: %w", selector, err)
	}
	return html, nil
}

func (s *Session) WaitDownload(ctx context.Context, dir string, timeout time.Duration, trigger func() error) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve download dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	wait := s.browser.WaitDownload(abs)

	if err := trigger(); err != nil {
		return "", fmt.Errorf("download trigger failed: %w", err)
	}

	// The waiter blocks until Chrome reports the download completed; on
	// timeout the goroutine stays parked until the session closes.
	done := make(chan *proto.PageDownloadWillBegin, 1)
	go func() { done <- wait() }()

	select {
	case info := <-done:
		if info == nil {
			return "", errors.New("download never started")
		}
		path := filepath.Join(abs, info.GUID)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("downloaded file missing: %w", err)
		}
		if info.SuggestedFilename != "" {
			named := filepath.Join(abs, filepath.Base(info.SuggestedFilename))
			if err := os.Rename(path, named); err == nil {
				path = named
			}
		}
		return path, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("download did not complete within %s", timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	imgBytes, err := s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *Session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (s *Session) Alive() bool {
	return !s.closed
}

func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
}
