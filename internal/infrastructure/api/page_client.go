package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
	"github.com/damon-houk/largest-banks-etl/internal/infrastructure/logger"
)

// PageClient implements the PageFetcher interface over plain HTTP
type PageClient struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewPageClient creates a new page client. A zero timeout waits indefinitely.
func NewPageClient(timeout time.Duration, log logger.Logger) *PageClient {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &PageClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// FetchPage performs a single GET and returns the body as text.
// Any transport failure, non-2xx status or non-textual body is a *entity.FetchError.
func (c *PageClient) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &entity.FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &entity.FetchError{URL: url, Err: err}
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"url":   url,
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &entity.FetchError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("Source page fetched", map[string]interface{}{
		"url":          url,
		"status":       resp.StatusCode,
		"bytes":        len(body),
		"content_type": resp.Header.Get("Content-Type"),
		"duration_ms":  time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &entity.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	if !isTextual(contentType) {
		return "", &entity.FetchError{URL: url, Err: fmt.Errorf("non-text response: %s", contentType)}
	}

	return string(body), nil
}

// isTextual reports whether a Content-Type carries markup we can parse
func isTextual(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/xhtml+xml"
}
