package service

import (
	"context"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

// PageFetcher defines the interface for retrieving the source markup
type PageFetcher interface {
	// FetchPage performs a GET on url and returns the textual body
	FetchPage(ctx context.Context, url string) (string, error)
}

// Extractor turns source markup into a dataset
type Extractor interface {
	// Extract parses markup into records named by columns
	Extract(markup string, columns []string) (*entity.Dataset, error)
}
