package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slrkit/sjrmatch/internal/config"
	"github.com/slrkit/sjrmatch/internal/ranking"
	"github.com/slrkit/sjrmatch/internal/storage"
)

var (
	indexDir  string
	indexFrom int
	indexTo   int
)

func init() {
	indexBuildCmd.Flags().StringVar(&indexDir, "dir", "", "Directory with per-year ranking files")
	indexBuildCmd.Flags().IntVar(&indexFrom, "from", 0, "First ranking year to index")
	indexBuildCmd.Flags().IntVar(&indexTo, "to", 0, "Last ranking year to index")
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the journal lookup index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the lookup index from the yearly ranking files",
	Long: `Rebuild the SQLite lookup index from the yearly ranking files.

The index lives next to the ranking files (rankings.db) and is derived
data: it is wiped and rebuilt on every run and can be deleted freely.
It exists so 'sjrmatch lookup' can answer quartile-history queries
without re-reading every spreadsheet.`,
	RunE: runIndexBuild,
}

// IndexReport is the JSON result of an index build.
type IndexReport struct {
	Path         string `json:"path"`
	Entries      int    `json:"entries"`
	Years        []int  `json:"years"`
	MissingYears []int  `json:"missing_years,omitempty"`
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	opts, err := config.Resolve(config.Options{Dir: indexDir, StartYear: indexFrom, EndYear: indexTo})
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if opts.Dir == "" {
		exitWithError(ExitConfigError, "no ranking directory: pass --dir, set %s, or run 'sjrmatch config set sjr_dir <path>'", config.EnvDir)
	}

	tables, missing, err := ranking.LoadSet(opts.RankingConfig())
	if err != nil {
		exitWithError(ExitDataError, "loading ranking tables: %v", err)
	}
	if len(tables.Years()) == 0 {
		exitWithError(ExitDataError, "no ranking files found in %s for %d-%d", opts.Dir, opts.StartYear, opts.EndYear)
	}

	dbPath := config.IndexPath(opts.Dir)
	db, err := storage.Open(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	count, err := db.Rebuild(tables)
	if err != nil {
		exitWithError(ExitError, "rebuilding index: %v", err)
	}

	report := IndexReport{
		Path:         dbPath,
		Entries:      count,
		Years:        tables.Years(),
		MissingYears: missing,
	}
	if humanOutput {
		fmt.Printf("Indexed %d entries across %d years\n", report.Entries, len(report.Years))
		if len(report.MissingYears) > 0 {
			fmt.Printf("Years without files: %v\n", report.MissingYears)
		}
		fmt.Printf("Index: %s\n", report.Path)
		return nil
	}
	return outputJSON(report)
}
