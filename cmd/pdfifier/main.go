// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfifier CLI, which turns a
// CSV of web article URLs into one PDF per article, skipping URLs that
// were already processed.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdfifier CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfifier",
	Short: "Convert web articles to PDF documents",
	Long: `pdfifier reads a CSV file of article URLs, fetches each page, extracts
the title, paragraph text, and images, and renders one PDF per article.
Completed URLs are appended to a tracking file so later runs skip them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Best effort: a missing .env file is the normal case.
		if err := godotenv.Load(); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded environment from .env")
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfifier.yaml or ~/.config/pdfifier/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfifier")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfifier"))
		}
	}

	viper.SetEnvPrefix("PDFIFIER")
	viper.AutomaticEnv()
	// PDF_OUTPUT_DIR predates the PDFIFIER_ prefix and stays supported.
	viper.BindEnv("output_dir", "PDFIFIER_OUTPUT_DIR", "PDF_OUTPUT_DIR")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
