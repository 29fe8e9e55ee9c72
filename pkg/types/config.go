package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdfifier/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for fetching and extracting article pages.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`
}

// RenderConfig holds settings for PDF rendering. Image fetches use these
// HTTP settings independently of the page fetch.
type RenderConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory PDFs and metadata sidecars are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ImageWidth is the fixed embed width for article images, in
	// document units (default 100).
	ImageWidth float64 `json:"image_width" yaml:"image_width"`
}

// TrackerConfig holds settings for the processed-link tracking file.
type TrackerConfig struct {
	// Path is the location of the newline-delimited tracking file.
	Path string `json:"path" yaml:"path"`
}

// ArchiveConfig holds settings for the SQLite article archive.
type ArchiveConfig struct {
	// Path is the location of the archive database file. Empty disables
	// the archive; the tracking file alone then records completion.
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations for a processing run.
type PipelineConfig struct {
	// InputPath is the CSV file of candidate article URLs.
	InputPath string `json:"input_path" yaml:"input_path"`

	// DownloadDelay is the delay between consecutive article fetches
	// (default 0).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Tracker TrackerConfig `json:"tracker" yaml:"tracker"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}
