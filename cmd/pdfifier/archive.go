package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfifier/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [url]",
	Short: "List archived articles, or show one by URL",
	Long: `Archive queries the SQLite index of processed articles. With no
arguments it lists every entry; with a URL it shows that entry alone.
The index is secondary to the tracking file and only covers runs where
archiving was enabled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().String("archive-db", defaultArchiveDB, "SQLite archive of processed articles")

	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	archiveDB, _ := cmd.Flags().GetString("archive-db")

	store, err := archive.Open(archiveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		entry, err := store.Get(args[0])
		if err == sql.ErrNoRows {
			return fmt.Errorf("not archived: %s", args[0])
		}
		if err != nil {
			return err
		}
		printEntry(*entry)
		return nil
	}

	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("archive is empty")
		return nil
	}
	for _, e := range entries {
		printEntry(e)
	}
	return nil
}

func printEntry(e archive.Entry) {
	fmt.Printf("%s  %s\n", e.ProcessedAt.Format(time.RFC3339), e.URL)
	fmt.Printf("    title:  %s\n", e.Title)
	fmt.Printf("    pdf:    %s\n", e.PDFPath)
	fmt.Printf("    images: %d\n", e.ImageCount)
}
