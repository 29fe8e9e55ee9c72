// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render produces one PDF per article: a bold title line, the
// paragraph text, then each article image fetched again over the network
// and embedded at a fixed width.
package render

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/pdfifier/internal/httputil"
	"github.com/pdiddy/pdfifier/pkg/types"
)

const (
	titleFontSize = 16
	bodyFontSize  = 12
	lineHeight    = 10

	defaultImageWidth = 100
)

// Renderer writes articles to PDF files. Image fetches go through the
// embedded HTTP client with its own timeout, independent of the page fetch.
type Renderer struct {
	client *http.Client
	cfg    types.RenderConfig
}

// New returns a Renderer that fetches images with client.
func New(client *http.Client, cfg types.RenderConfig) *Renderer {
	if cfg.ImageWidth <= 0 {
		cfg.ImageWidth = defaultImageWidth
	}
	return &Renderer{client: client, cfg: cfg}
}

// Render writes article as a PDF at destPath. A single image failure is
// logged to w and skipped; only a failure to produce or write the
// document itself aborts the article. Pagination of long text is left to
// the PDF library.
func (r *Renderer) Render(article *types.Article, destPath string, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", titleFontSize)
	pdf.CellFormat(0, lineHeight, tr(article.Title), "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", bodyFontSize)
	pdf.MultiCell(0, lineHeight, tr(article.Text), "", "", false)

	for _, imgURL := range article.Images {
		if err := r.embedImage(pdf, imgURL, destPath); err != nil {
			fmt.Fprintf(w, "  warning: image %s: %v\n", imgURL, err)
		}
	}

	if err := pdf.OutputFileAndClose(destPath); err != nil {
		return fmt.Errorf("writing PDF %s: %w", destPath, err)
	}
	return nil
}

// embedImage downloads imgURL to a temporary file beside destPath, embeds
// it into the document at the configured width, and removes the temporary
// file whether or not the embed succeeds. An embed failure is cleared
// from the document's error state so the rest of the article survives.
func (r *Renderer) embedImage(pdf *fpdf.Fpdf, imgURL, destPath string) error {
	resp, err := httputil.Get(r.client, imgURL, r.cfg.UserAgent)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".img-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		return fmt.Errorf("writing image: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	opts := fpdf.ImageOptions{
		ImageType: imageType(imgURL, resp.Header.Get("Content-Type")),
	}
	pdf.ImageOptions(tmpPath, pdf.GetX(), pdf.GetY(), r.cfg.ImageWidth, 0, true, opts, 0, "")
	if !pdf.Ok() {
		embedErr := pdf.Error()
		pdf.ClearError()
		return fmt.Errorf("embedding image: %w", embedErr)
	}
	return nil
}

// imageType derives the fpdf image type from the response Content-Type,
// falling back to the URL path extension. The temporary file carries no
// extension, so the library cannot infer the type itself.
func imageType(imgURL, contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return "PNG"
	case strings.Contains(contentType, "gif"):
		return "GIF"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return "JPG"
	}

	if u, err := url.Parse(imgURL); err == nil {
		switch strings.ToLower(path.Ext(u.Path)) {
		case ".png":
			return "PNG"
		case ".gif":
			return "GIF"
		}
	}
	return "JPG"
}

// SafeTitle converts a title into a filename stem by replacing every
// non-alphanumeric rune with an underscore. An empty title yields
// "untitled". The mapping is deterministic and lossy: distinct titles
// differing only in non-alphanumeric runes collide, and colliding
// articles overwrite each other's output.
func SafeTitle(title string) string {
	if title == "" {
		return "untitled"
	}
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
