// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RawDocument holds the unparsed response body for one fetched URL.
type RawDocument struct {
	// URL is the address the document was fetched from.
	URL string

	// Body is the raw response body.
	Body []byte
}

// Article holds the content extracted from one web page. It is transient:
// only the rendered PDF, the metadata sidecar, and the originating URL
// outlive the processing of a single input URL.
type Article struct {
	// URL is the source address of the article.
	URL string `json:"url" yaml:"url"`

	// Title is the page title, or "untitled" when the page has none.
	Title string `json:"title" yaml:"title"`

	// Text is the paragraph text in document order, newline separated.
	Text string `json:"-" yaml:"-"`

	// Images lists the absolute image URLs in document order. Repeated
	// URLs are preserved; relative URLs are dropped at extraction.
	Images []string `json:"images" yaml:"images"`
}

// ArticleMeta is the metadata sidecar written alongside each rendered PDF.
type ArticleMeta struct {
	// URL is the source address of the article.
	URL string `json:"url" yaml:"url"`

	// Title is the extracted page title.
	Title string `json:"title" yaml:"title"`

	// PDFPath is the local filesystem path of the rendered PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// Images lists the image URLs the renderer attempted to embed.
	Images []string `json:"images" yaml:"images"`

	// ProcessedAt is when the article finished rendering.
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`
}
