// Package download resolves a product id to a finished local file.
package download

import (
	"context"
	"fmt"
	"os"
	"time"

	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/domain/entity"
)

const (
	downloadButton  = "Download"
	detailURLFormat = "https://scihub.copernicus.eu/dhus/#/details?id=%s"

	defaultCompletionWait = 120 * time.Second
	buttonWait            = 10 * time.Second
)

type Orchestrator struct {
	log            output.LoggerPort
	completionWait time.Duration
}

func NewOrchestrator(log output.LoggerPort, completionWait time.Duration) *Orchestrator {
	if completionWait <= 0 {
		completionWait = defaultCompletionWait
	}
	return &Orchestrator{log: log, completionWait: completionWait}
}

// Fetch navigates to the product's detail view and drives the portal
// download to completion inside targetDir. Every failure is reported as a
// DownloadError carrying the product id, and a path is only returned once
// the browser reports the file finished.
func (o *Orchestrator) Fetch(ctx context.Context, s output.BrowserSession, productID, targetDir string) (string, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", &entity.DownloadError{ProductID: productID, Err: fmt.Errorf("create download dir: %w", err)}
	}

	if err := s.Navigate(ctx, fmt.Sprintf(detailURLFormat, productID)); err != nil {
		return "", &entity.DownloadError{ProductID: productID, Err: err}
	}
	if err := s.WaitText(ctx, downloadButton, buttonWait); err != nil {
		return "", &entity.DownloadError{ProductID: productID, Err: err}
	}

	path, err := s.WaitDownload(ctx, targetDir, o.completionWait, func() error {
		return s.ClickText(ctx, downloadButton)
	})
	if err != nil {
		return "", &entity.DownloadError{ProductID: productID, Err: err}
	}

	o.log.Info("product downloaded", "product_id", productID, "path", path)
	return path, nil
}
