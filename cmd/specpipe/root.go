// Package main implements the specpipe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "specpipe",
	Short: "specpipe extracts structured product specifications from documents",
	Long: `specpipe runs product datasheets and manuals (PDF, DOCX, DOC, XLSX, TXT)
through a decoding, cleaning, table-parsing and model-extraction pipeline
and emits a scored product record.

Usage:
  specpipe analyze <file> [flags]`,
	SilenceUsage: true,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
