package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfifier/internal/fetch"
	"github.com/pdiddy/pdfifier/internal/httputil"
	"github.com/pdiddy/pdfifier/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Fetch one article and print what would be extracted",
	Long: `Fetch downloads a single article URL, extracts the title, paragraph
text, and image URLs, and prints a summary without rendering a PDF.
Useful for checking what a page yields before processing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 10s)")
	fetchCmd.Flags().Bool("text", false, "print the full extracted text")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	showText, _ := cmd.Flags().GetBool("text")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
	}
	client := httputil.NewClient(timeout)

	start := time.Now()
	doc, err := fetch.Fetch(client, args[0], cfg)
	if err != nil {
		return err
	}

	article, err := fetch.Extract(doc)
	if err != nil {
		return err
	}

	fmt.Printf("url:        %s\n", article.URL)
	fmt.Printf("title:      %s\n", article.Title)
	fmt.Printf("paragraphs: %d\n", countParagraphs(article.Text))
	fmt.Printf("text bytes: %d\n", len(article.Text))
	fmt.Printf("images:     %d\n", len(article.Images))
	for _, img := range article.Images {
		fmt.Printf("  %s\n", img)
	}
	fmt.Fprintf(os.Stderr, "fetched in %v\n", time.Since(start).Round(time.Millisecond))

	if showText {
		fmt.Println()
		fmt.Println(article.Text)
	}
	return nil
}

// countParagraphs counts the newline-separated text blocks.
func countParagraphs(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
