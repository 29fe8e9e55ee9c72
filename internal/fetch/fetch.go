// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads article pages and extracts their content.
package fetch

import (
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/pdfifier/internal/httputil"
	"github.com/pdiddy/pdfifier/pkg/types"
)

// Fetch issues a single blocking GET for url and returns the raw response
// body. Network failures, timeouts, and non-2xx statuses are errors.
// There is no retry and no cap on the response body size.
func Fetch(client *http.Client, url string, cfg types.FetchConfig) (*types.RawDocument, error) {
	resp, err := httputil.Get(client, url, cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	return &types.RawDocument{URL: url, Body: body}, nil
}
