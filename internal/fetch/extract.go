// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pdfifier/pkg/types"
)

// Untitled is the placeholder title used when a page carries no <title>.
const Untitled = "untitled"

// Extract parses the document body as HTML and pulls out the article
// content: the first <title> element's text (or the Untitled placeholder),
// every <p> element's text joined with newlines in document order, and
// the src of every <img> whose value starts with an HTTP(S) scheme.
//
// Image URLs are kept in document order with duplicates preserved.
// Relative image URLs fail the scheme-prefix test and are dropped.
func Extract(doc *types.RawDocument) (*types.Article, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", doc.URL, err)
	}

	title := strings.TrimSpace(root.Find("title").First().Text())
	if title == "" {
		title = Untitled
	}

	var paragraphs []string
	root.Find("p").Each(func(_ int, s *goquery.Selection) {
		paragraphs = append(paragraphs, s.Text())
	})

	var images []string
	root.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if ok && strings.HasPrefix(src, "http") {
			images = append(images, src)
		}
	})

	return &types.Article{
		URL:    doc.URL,
		Title:  title,
		Text:   strings.Join(paragraphs, "\n"),
		Images: images,
	}, nil
}
