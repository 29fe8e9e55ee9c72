package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfifier/internal/archive"
	"github.com/pdiddy/pdfifier/internal/httputil"
	"github.com/pdiddy/pdfifier/internal/pipeline"
	"github.com/pdiddy/pdfifier/internal/track"
	"github.com/pdiddy/pdfifier/pkg/types"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultUserAgent    = "pdfifier/0.1"
	defaultOutputDir    = "output_pdfs"
	defaultTrackingFile = "processed_links.txt"
	defaultArchiveDB    = "data/archive.db"
	defaultImageWidth   = 100
)

var processCmd = &cobra.Command{
	Use:   "process [csv-file]",
	Short: "Convert article URLs from a CSV file into PDFs",
	Long: `Process reads a CSV file where every field is a candidate article URL,
fetches each page, and renders one PDF per article into the output
directory. URLs listed in the tracking file are skipped; each newly
completed URL is appended to it. One article's failure never aborts the
run.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 10s)")
	processCmd.Flags().Duration("delay", 0, "delay between consecutive article fetches (default 0)")
	processCmd.Flags().String("output-dir", "", "directory for PDFs (default $PDF_OUTPUT_DIR or output_pdfs)")
	processCmd.Flags().String("tracking-file", defaultTrackingFile, "file of already processed URLs")
	processCmd.Flags().String("archive-db", defaultArchiveDB, "SQLite archive of processed articles (empty to disable)")
	processCmd.Flags().Float64("image-width", defaultImageWidth, "embed width for article images")

	rootCmd.AddCommand(processCmd)
}

// outputDir resolves the output directory: flag, then config/environment
// (PDF_OUTPUT_DIR), then the built-in default.
func outputDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("output_dir"); dir != "" {
		return dir
	}
	return defaultOutputDir
}

func runProcess(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	trackingFile, _ := cmd.Flags().GetString("tracking-file")
	archiveDB, _ := cmd.Flags().GetString("archive-db")
	imageWidth, _ := cmd.Flags().GetFloat64("image-width")

	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}
	cfg := types.PipelineConfig{
		InputPath:     args[0],
		DownloadDelay: delay,
		Fetch:         types.FetchConfig{HTTPConfig: httpCfg},
		Render: types.RenderConfig{
			HTTPConfig: httpCfg,
			OutputDir:  outputDir(cmd),
			ImageWidth: imageWidth,
		},
		Tracker: types.TrackerConfig{Path: trackingFile},
		Archive: types.ArchiveConfig{Path: archiveDB},
	}

	// An unreadable tracking file is fatal: without it every URL would
	// be reprocessed.
	tracker, err := track.Load(cfg.Tracker.Path)
	if err != nil {
		return err
	}

	var store *archive.Store
	if cfg.Archive.Path != "" {
		store, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: archive disabled: %v\n", err)
		} else {
			defer store.Close()
		}
	}

	client := httputil.NewClient(cfg.Fetch.Timeout)

	// Per-URL failures are already logged; the run itself completes
	// normally once every input URL has been attempted.
	_, err = pipeline.Run(client, cfg, tracker, store, os.Stdout)
	return err
}
