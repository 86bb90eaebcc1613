package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionStart means the browser engine could not be launched. No
	// session is active after this error.
	ErrSessionStart = errors.New("browser session could not be started")

	// ErrCredentialsMissing is raised before any page interaction when the
	// portal requires sign-in and the environment carries no credentials.
	ErrCredentialsMissing = errors.New("portal credentials are not configured")

	// ErrLoginTimeout means the post-login marker never appeared. Not
	// retried automatically.
	ErrLoginTimeout = errors.New("login confirmation did not appear in time")
)

// DownloadError ties a download failure to the product that caused it.
type DownloadError struct {
	ProductID string
	Err       error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of product %s failed: %v", e.ProductID, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
