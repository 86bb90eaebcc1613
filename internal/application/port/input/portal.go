package input

import (
	"context"

	"satellite-agent/internal/domain/entity"
)

// PortalAgent drives one search-and-download workflow against the imagery
// portal. Callers must serialize invocations on a single instance.
type PortalAgent interface {
	Search(ctx context.Context, query entity.SearchQuery) ([]entity.ProductRecord, error)
	Download(ctx context.Context, productID, downloadDir string) (string, error)
}
