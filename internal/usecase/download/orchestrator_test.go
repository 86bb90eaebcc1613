package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satellite-agent/internal/domain/entity"
	"satellite-agent/internal/infrastructure/browser/browsertest"
)

func newOrchestrator() *Orchestrator {
	return NewOrchestrator(browsertest.NopLogger{}, 0)
}

func TestFetch_Success(t *testing.T) {
	dir := t.TempDir()
	s := browsertest.NewSession()
	s.PageTexts["Download"] = true
	s.DownloadPath = filepath.Join(dir, "S2A_001.zip")

	path, err := newOrchestrator().Fetch(context.Background(), s, "S2A_001", dir)
	require.NoError(t, err)
	assert.Equal(t, s.DownloadPath, path)

	assert.Equal(t, []string{
		"navigate:https://scihub.copernicus.eu/dhus/#/details?id=S2A_001",
		"waitText:Download",
		"waitDownload:" + dir,
		"clickText:Download",
	}, s.Calls)
}

func TestFetch_CreatesTargetDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	s := browsertest.NewSession()
	s.PageTexts["Download"] = true
	s.DownloadPath = filepath.Join(dir, "product.zip")

	_, err := newOrchestrator().Fetch(context.Background(), s, "S2A_001", dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFetch_NavigationFailure(t *testing.T) {
	s := browsertest.NewSession()
	s.FailOn["navigate"] = errors.New("portal unreachable")

	_, err := newOrchestrator().Fetch(context.Background(), s, "S2A_001", t.TempDir())

	var dlErr *entity.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, "S2A_001", dlErr.ProductID)
}

func TestFetch_TriggerFailure(t *testing.T) {
	s := browsertest.NewSession()
	s.PageTexts["Download"] = true
	s.FailOn["clickText:Download"] = errors.New("button detached")

	_, err := newOrchestrator().Fetch(context.Background(), s, "S2B_777", t.TempDir())

	var dlErr *entity.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, "S2B_777", dlErr.ProductID)
}

func TestFetch_CompletionNeverResolves(t *testing.T) {
	dir := t.TempDir()
	s := browsertest.NewSession()
	s.PageTexts["Download"] = true
	s.DownloadErr = errors.New("download did not complete within 2m0s")

	path, err := newOrchestrator().Fetch(context.Background(), s, "S2A_001", dir)

	var dlErr *entity.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Empty(t, path, "no path may be reported for an unfinished download")

	// The target dir must not hold a file passed off as the result.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
