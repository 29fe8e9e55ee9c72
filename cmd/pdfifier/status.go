package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfifier/internal/archive"
	"github.com/pdiddy/pdfifier/internal/track"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many URLs have been processed",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("tracking-file", defaultTrackingFile, "file of already processed URLs")
	statusCmd.Flags().String("archive-db", defaultArchiveDB, "SQLite archive of processed articles")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	trackingFile, _ := cmd.Flags().GetString("tracking-file")
	archiveDB, _ := cmd.Flags().GetString("archive-db")

	tracker, err := track.Load(trackingFile)
	if err != nil {
		return err
	}
	fmt.Printf("tracked URLs: %d (%s)\n", tracker.Len(), trackingFile)

	if archiveDB == "" {
		return nil
	}
	if _, err := os.Stat(archiveDB); os.IsNotExist(err) {
		fmt.Printf("archive:      none (%s does not exist)\n", archiveDB)
		return nil
	}

	store, err := archive.Open(archiveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Count()
	if err != nil {
		return err
	}
	fmt.Printf("archived:     %d (%s)\n", n, archiveDB)
	return nil
}
