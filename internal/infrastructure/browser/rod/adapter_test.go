package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satellite-agent/internal/application/port/output"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Headless)
	assert.Equal(t, defaultSlowMotion, cfg.SlowMotion)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.True(t, cfg.NoSandbox)
	assert.False(t, cfg.DevTools)
}

func TestNewFactory_CorrectsZeroTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0

	f := NewFactory(cfg)
	assert.Equal(t, defaultTimeout, f.cfg.Timeout)
}

func TestNavigate_RejectsInvalidURLs(t *testing.T) {
	// URL validation runs before any browser interaction.
	s := &Session{}

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"ftp scheme", "ftp://example.com"},
		{"javascript", "javascript:alert(1)"},
		{"relative", "/details?id=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Navigate(context.Background(), tt.url)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s := &Session{}

	assert.True(t, s.Alive())
	s.Close()
	assert.False(t, s.Alive())
	assert.NotPanics(t, s.Close)
}

// The tests below drive a real headless Chrome; set BROWSER_TESTS=1 to run
// them.

func requireBrowser(t *testing.T) {
	t.Helper()
	if os.Getenv("BROWSER_TESTS") == "" {
		t.Skip("set BROWSER_TESTS=1 to run browser integration tests")
	}
}

func newTestSession(t *testing.T) output.BrowserSession {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SlowMotion = 0

	s, err := NewFactory(cfg).NewSession(context.Background())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSession_NavigateAndProbe(t *testing.T) {
	requireBrowser(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Portal</title></head>
<body>
	<button>Sign in</button>
	<div class="search-results">
		<div class="search-result-item" data-product-id="p1">
			<span class="product-title">First</span>
		</div>
	</div>
</body>
</html>`)
	}))
	defer server.Close()

	s := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, server.URL))
	assert.Equal(t, server.URL+"/", s.CurrentURL())

	has, err := s.HasText(ctx, "Sign in")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.HasText(ctx, "Sign out")
	require.NoError(t, err)
	assert.False(t, has)

	html, err := s.HTML(ctx, ".search-results")
	require.NoError(t, err)
	assert.Contains(t, html, `data-product-id="p1"`)
}

func TestSession_FillAndClickText(t *testing.T) {
	requireBrowser(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<body>
	<input name="username" placeholder="Search area">
	<button id="go" onclick="document.getElementById('echo').textContent = document.querySelector('input').value">Search</button>
	<div id="echo"></div>
</body>
</html>`)
	}))
	defer server.Close()

	s := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, server.URL))
	require.NoError(t, s.Fill(ctx, "input[placeholder='Search area']", "Rome"))
	require.NoError(t, s.ClickText(ctx, "Search"))

	require.NoError(t, s.WaitText(ctx, "Rome", 5*time.Second))
}

func TestSession_WaitDownload(t *testing.T) {
	requireBrowser(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/file.zip" {
			w.Header().Set("Content-Type", "application/zip")
			w.Header().Set("Content-Disposition", `attachment; filename="product.zip"`)
			fmt.Fprint(w, "PK\x03\x04 not a real archive")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><a href="/file.zip" download>Download</a></body></html>`)
	}))
	defer server.Close()

	s := newTestSession(t)
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, s.Navigate(ctx, server.URL))

	path, err := s.WaitDownload(ctx, dir, 30*time.Second, func() error {
		return s.ClickText(ctx, "Download")
	})
	require.NoError(t, err)
	assert.FileExists(t, path)
}
