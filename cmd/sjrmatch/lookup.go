package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slrkit/sjrmatch/internal/config"
	"github.com/slrkit/sjrmatch/internal/normalize"
	"github.com/slrkit/sjrmatch/internal/storage"
)

var (
	lookupDir  string
	lookupYear int
)

func init() {
	lookupCmd.Flags().StringVar(&lookupDir, "dir", "", "Directory with per-year ranking files")
	lookupCmd.Flags().IntVar(&lookupYear, "year", 0, "Restrict to a single year")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <journal>",
	Short: "Query a journal's quartile history from the index",
	Long: `Look up a journal's quartile per year in the lookup index.

The journal name is normalized the same way matching normalizes it, so
any formatting that matches in a run also matches here.

Examples:
  sjrmatch lookup "ACM Transactions on Software Engineering"
  sjrmatch lookup "Journal of Informetrics" --year 2015`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

// LookupReport is the JSON result of a lookup.
type LookupReport struct {
	Journal string              `json:"journal"`
	Key     string              `json:"key"`
	Year    int                 `json:"year,omitempty"`
	Results []storage.LookupRow `json:"results"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	opts, err := config.Resolve(config.Options{Dir: lookupDir})
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if opts.Dir == "" {
		exitWithError(ExitConfigError, "no ranking directory: pass --dir, set %s, or run 'sjrmatch config set sjr_dir <path>'", config.EnvDir)
	}

	dbPath := config.IndexPath(opts.Dir)
	if _, err := os.Stat(dbPath); err != nil {
		exitWithError(ExitConfigError, "lookup index not found at %s\n\nRun 'sjrmatch index build' to create it.", dbPath)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	key := normalize.Title(args[0])
	rows, err := db.Lookup(key, lookupYear)
	if err != nil {
		exitWithError(ExitError, "querying index: %v", err)
	}

	report := LookupReport{
		Journal: args[0],
		Key:     key,
		Year:    lookupYear,
		Results: rows,
	}
	if humanOutput {
		if len(rows) == 0 {
			fmt.Printf("No entries for %q\n", args[0])
			return nil
		}
		fmt.Printf("%s\n", rows[0].Title)
		for _, r := range rows {
			line := fmt.Sprintf("  %d: %s", r.Year, r.Quartile)
			if r.Rank > 0 {
				line += fmt.Sprintf(" (rank %d)", r.Rank)
			}
			fmt.Println(line)
		}
		if !strings.EqualFold(rows[0].Title, args[0]) {
			fmt.Printf("Matched via key: %s\n", key)
		}
		return nil
	}
	return outputJSON(report)
}
