// Package main provides the sjrmatch CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sjrmatch",
	Short: "SJR quartile matching for systematic review datasets",
	Long: `sjrmatch processes the spreadsheet stages of a systematic literature
review:

  - merge    build a per-year quartile table from raw SCImago exports
  - match    match each record's journal to its year-specific quartile
  - dedupe   remove duplicate bibliographic records
  - index    maintain a SQLite lookup index over the yearly tables
  - lookup   query a journal's quartile history from the index

Every match runs strictly year-scoped: a record published in 2007 is only
ever looked up in the 2007 table. Outputs are always new files; inputs are
never modified in place. Commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
