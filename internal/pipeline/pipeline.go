// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the article processing loop: read candidate
// URLs from a CSV file, fetch and extract each one, render it to a PDF,
// and record completion in the link tracker.
//
// Processing is strictly sequential, one URL at a time. A per-URL
// failure is logged and the loop continues; only a failure to open the
// input file aborts the run. The PDF write and the tracking append are
// not atomic, so a crash between them reprocesses the URL next run.
package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfifier/internal/archive"
	"github.com/pdiddy/pdfifier/internal/fetch"
	"github.com/pdiddy/pdfifier/internal/render"
	"github.com/pdiddy/pdfifier/internal/track"
	"github.com/pdiddy/pdfifier/pkg/types"
)

const metadataDir = "metadata"

// BatchResult holds the outcome of a processing run.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int
}

// Total returns the total number of URLs attempted or skipped.
func (r BatchResult) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether any URLs failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run processes every candidate URL in the input CSV. Every field of
// every record is treated as a potential URL; empty fields are ignored
// and URLs already tracked, or already completed earlier in the same
// run, are skipped. Per-URL status is printed to w. The store may be
// nil to disable archiving.
func Run(client *http.Client, cfg types.PipelineConfig, tracker *track.Tracker, store *archive.Store, w io.Writer) (BatchResult, error) {
	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return BatchResult{}, fmt.Errorf("opening input file %s: %w", cfg.InputPath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(cfg.Render.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", cfg.Render.OutputDir, err)
	}

	renderer := render.New(client, cfg.Render)
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var result BatchResult
	// done holds URLs completed or skipped this run; failed URLs are
	// not added, so a later duplicate gets another attempt.
	done := make(map[string]struct{})

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("reading input file %s: %w", cfg.InputPath, err)
		}

		for _, field := range record {
			url := strings.TrimSpace(field)
			if url == "" {
				continue
			}
			if _, ok := done[url]; ok {
				continue
			}
			if tracker.Contains(url) {
				fmt.Fprintf(w, "skipped: %s (already processed)\n", url)
				done[url] = struct{}{}
				result.Skipped++
				continue
			}

			if result.Processed+result.Failed > 0 && cfg.DownloadDelay > 0 {
				time.Sleep(cfg.DownloadDelay)
			}

			if processURL(client, renderer, cfg, tracker, store, url, w) {
				done[url] = struct{}{}
				result.Processed++
			} else {
				result.Failed++
			}
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d processed, %d skipped, %d failed (total: %d)\n",
		result.Processed, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// processURL runs one URL through fetch, extract, render, and tracking.
// Failures are logged to w with the offending URL; they never abort the
// batch. The tracker is updated only after the PDF and its metadata
// sidecar are on disk.
func processURL(client *http.Client, renderer *render.Renderer, cfg types.PipelineConfig, tracker *track.Tracker, store *archive.Store, url string, w io.Writer) bool {
	fmt.Fprintf(w, "processing: %s\n", url)

	doc, err := fetch.Fetch(client, url, cfg.Fetch)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", url, err)
		return false
	}

	article, err := fetch.Extract(doc)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", url, err)
		return false
	}

	destPath := filepath.Join(cfg.Render.OutputDir, render.SafeTitle(article.Title)+".pdf")
	if err := renderer.Render(article, destPath, w); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", url, err)
		return false
	}

	processedAt := time.Now().UTC()
	if err := writeMetadata(article, destPath, cfg.Render.OutputDir, processedAt); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", url, err)
		return false
	}

	if err := tracker.MarkDone(url); err != nil {
		fmt.Fprintf(w, "failed:  %s (tracking: %v)\n", url, err)
		return false
	}

	if store != nil {
		if err := store.Record(article, destPath, processedAt); err != nil {
			fmt.Fprintf(w, "  warning: archive: %v\n", err)
		}
	}
	return true
}

// writeMetadata writes the YAML sidecar for a rendered article under
// outputDir/metadata/, named after the PDF's filename stem. A sidecar
// failure counts as a failure of the whole article so the PDF and its
// sidecar stay consistent.
func writeMetadata(article *types.Article, pdfPath, outputDir string, processedAt time.Time) error {
	metaDir := filepath.Join(outputDir, metadataDir)
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	meta := types.ArticleMeta{
		URL:         article.URL,
		Title:       article.Title,
		PDFPath:     pdfPath,
		Images:      article.Images,
		ProcessedAt: processedAt,
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	metaPath := filepath.Join(metaDir, stem+".yaml")
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}
