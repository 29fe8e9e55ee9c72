// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/pdfifier/internal/archive"
	"github.com/pdiddy/pdfifier/internal/track"
	"github.com/pdiddy/pdfifier/pkg/types"
)

func articleHTML(title string) string {
	return fmt.Sprintf(`<html><head><title>%s</title></head><body><p>Body of %s.</p></body></html>`, title, title)
}

// newArticleServer serves /art/1 and /art/2 as plain HTML articles and
// counts requests per path.
func newArticleServer() (*httptest.Server, map[string]*int32) {
	hits := map[string]*int32{
		"/art/1": new(int32),
		"/art/2": new(int32),
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := hits[r.URL.Path]; ok {
			atomic.AddInt32(c, 1)
		}
		switch r.URL.Path {
		case "/art/1":
			fmt.Fprint(w, articleHTML("Article One"))
		case "/art/2":
			fmt.Fprint(w, articleHTML("Article Two"))
		default:
			http.NotFound(w, r)
		}
	}))
	return ts, hits
}

func testPipelineConfig(dir, inputPath, trackingPath string) types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   10 * time.Second,
		UserAgent: "pdfifier-test/0.1",
	}
	return types.PipelineConfig{
		InputPath: inputPath,
		Fetch:     types.FetchConfig{HTTPConfig: httpCfg},
		Render: types.RenderConfig{
			HTTPConfig: httpCfg,
			OutputDir:  filepath.Join(dir, "output_pdfs"),
			ImageWidth: 100,
		},
		Tracker: types.TrackerConfig{Path: trackingPath},
	}
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "articles.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	ts, hits := newArticleServer()
	defer ts.Close()

	dir := t.TempDir()
	// URL 1 appears twice across rows; each must be processed exactly once.
	input := writeInput(t, dir, fmt.Sprintf("%s/art/1\n\"%s/art/1\",\"%s/art/2\"\n", ts.URL, ts.URL, ts.URL))
	trackingPath := filepath.Join(dir, "processed_links.txt")

	tracker, err := track.Load(trackingPath)
	if err != nil {
		t.Fatalf("track.Load: %v", err)
	}
	store, err := archive.Open(filepath.Join(dir, "archive.db"))
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	defer store.Close()

	cfg := testPipelineConfig(dir, input, trackingPath)
	var buf bytes.Buffer

	result, err := Run(ts.Client(), cfg, tracker, store, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}

	// Exactly two PDFs.
	for _, name := range []string{"Article_One.pdf", "Article_Two.pdf"} {
		if _, err := os.Stat(filepath.Join(cfg.Render.OutputDir, name)); err != nil {
			t.Errorf("missing PDF %s: %v", name, err)
		}
	}

	// Each URL fetched exactly once despite the duplicate input field.
	if n := atomic.LoadInt32(hits["/art/1"]); n != 1 {
		t.Errorf("/art/1 fetched %d times, want 1", n)
	}
	if n := atomic.LoadInt32(hits["/art/2"]); n != 1 {
		t.Errorf("/art/2 fetched %d times, want 1", n)
	}

	// Tracking file contains each URL exactly once.
	data, err := os.ReadFile(trackingPath)
	if err != nil {
		t.Fatalf("reading tracking file: %v", err)
	}
	for _, u := range []string{ts.URL + "/art/1", ts.URL + "/art/2"} {
		if n := strings.Count(string(data), u+"\n"); n != 1 {
			t.Errorf("tracking file contains %q %d times, want 1", u, n)
		}
	}

	// Metadata sidecars exist and name the source URL.
	metaData, err := os.ReadFile(filepath.Join(cfg.Render.OutputDir, "metadata", "Article_One.yaml"))
	if err != nil {
		t.Fatalf("reading metadata sidecar: %v", err)
	}
	if !strings.Contains(string(metaData), ts.URL+"/art/1") {
		t.Errorf("sidecar does not mention source URL: %s", metaData)
	}

	// Archive has both rows.
	n, err := store.Count()
	if err != nil {
		t.Fatalf("store.Count: %v", err)
	}
	if n != 2 {
		t.Errorf("archive count = %d, want 2", n)
	}

	if !strings.Contains(buf.String(), "Batch summary: 2 processed, 0 skipped, 0 failed") {
		t.Errorf("missing batch summary, got %q", buf.String())
	}
}

func TestRunSkipsTrackedURLsWithoutFetching(t *testing.T) {
	ts, hits := newArticleServer()
	defer ts.Close()

	dir := t.TempDir()
	input := writeInput(t, dir, ts.URL+"/art/1\n")
	trackingPath := filepath.Join(dir, "processed_links.txt")
	if err := os.WriteFile(trackingPath, []byte(ts.URL+"/art/1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tracker, err := track.Load(trackingPath)
	if err != nil {
		t.Fatalf("track.Load: %v", err)
	}

	cfg := testPipelineConfig(dir, input, trackingPath)
	var buf bytes.Buffer

	result, err := Run(ts.Client(), cfg, tracker, nil, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if n := atomic.LoadInt32(hits["/art/1"]); n != 0 {
		t.Errorf("/art/1 fetched %d times, want 0", n)
	}
	if !strings.Contains(buf.String(), "skipped:") {
		t.Errorf("missing skip line, got %q", buf.String())
	}
}

func TestRunContinuesAfterFailedURL(t *testing.T) {
	ts, _ := newArticleServer()
	defer ts.Close()

	dir := t.TempDir()
	input := writeInput(t, dir, fmt.Sprintf("%s/art/missing\n%s/art/2\n", ts.URL, ts.URL))
	trackingPath := filepath.Join(dir, "processed_links.txt")

	tracker, err := track.Load(trackingPath)
	if err != nil {
		t.Fatalf("track.Load: %v", err)
	}

	cfg := testPipelineConfig(dir, input, trackingPath)
	var buf bytes.Buffer

	result, err := Run(ts.Client(), cfg, tracker, nil, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}

	// The failed URL must not be tracked; the successful one must be.
	data, err := os.ReadFile(trackingPath)
	if err != nil {
		t.Fatalf("reading tracking file: %v", err)
	}
	if strings.Contains(string(data), "/art/missing") {
		t.Error("failed URL must not appear in the tracking file")
	}
	if !strings.Contains(string(data), ts.URL+"/art/2") {
		t.Error("successful URL missing from tracking file")
	}
}

func TestRunInputOpenFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	trackingPath := filepath.Join(dir, "processed_links.txt")
	tracker, err := track.Load(trackingPath)
	if err != nil {
		t.Fatalf("track.Load: %v", err)
	}

	cfg := testPipelineConfig(dir, filepath.Join(dir, "no-such.csv"), trackingPath)
	var buf bytes.Buffer

	_, err = Run(http.DefaultClient, cfg, tracker, nil, &buf)
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
	if !strings.Contains(err.Error(), "opening input file") {
		t.Errorf("error = %q, want 'opening input file'", err.Error())
	}
}

func TestRunTrackingFailureLeavesPDF(t *testing.T) {
	ts, _ := newArticleServer()
	defer ts.Close()

	dir := t.TempDir()
	input := writeInput(t, dir, ts.URL+"/art/1\n")
	// A tracking path whose parent does not exist: the render succeeds
	// but the MarkDone append fails.
	trackingPath := filepath.Join(dir, "missing", "processed_links.txt")

	tracker, err := track.Load(trackingPath)
	if err != nil {
		t.Fatalf("track.Load: %v", err)
	}

	cfg := testPipelineConfig(dir, input, trackingPath)
	var buf bytes.Buffer

	result, err := Run(ts.Client(), cfg, tracker, nil, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}

	// The documented non-transactional gap: the PDF exists even though
	// the URL was never recorded.
	if _, err := os.Stat(filepath.Join(cfg.Render.OutputDir, "Article_One.pdf")); err != nil {
		t.Errorf("PDF should exist despite tracking failure: %v", err)
	}
	if _, err := os.Stat(trackingPath); !os.IsNotExist(err) {
		t.Errorf("tracking file should not exist, stat err = %v", err)
	}
	if !strings.Contains(buf.String(), "tracking:") {
		t.Errorf("expected tracking failure in output, got %q", buf.String())
	}
}

func TestRunIgnoresEmptyFields(t *testing.T) {
	ts, _ := newArticleServer()
	defer ts.Close()

	dir := t.TempDir()
	input := writeInput(t, dir, fmt.Sprintf("\"\",\"  \",\"%s/art/1\"\n", ts.URL))
	trackingPath := filepath.Join(dir, "processed_links.txt")

	tracker, err := track.Load(trackingPath)
	if err != nil {
		t.Fatalf("track.Load: %v", err)
	}

	cfg := testPipelineConfig(dir, input, trackingPath)
	var buf bytes.Buffer

	result, err := Run(ts.Client(), cfg, tracker, nil, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Total() != 1 {
		t.Errorf("Total = %d, want 1", result.Total())
	}
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
}
