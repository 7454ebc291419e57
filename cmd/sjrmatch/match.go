package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slrkit/sjrmatch/internal/config"
	"github.com/slrkit/sjrmatch/internal/dataset"
	"github.com/slrkit/sjrmatch/internal/matcher"
	"github.com/slrkit/sjrmatch/internal/ranking"
)

var (
	matchInput      string
	matchSheet      string
	matchDir        string
	matchOut        string
	matchJournalCol string
	matchYearCol    string
	matchFrom       int
	matchTo         int
	matchDryRun     bool
)

func init() {
	matchCmd.Flags().StringVar(&matchInput, "input", "", "Main dataset spreadsheet (required)")
	matchCmd.Flags().StringVar(&matchSheet, "sheet", "", "Sheet name (default: first sheet)")
	matchCmd.Flags().StringVar(&matchDir, "dir", "", "Directory with per-year ranking files")
	matchCmd.Flags().StringVar(&matchOut, "out", "", "Output file (default: <input>_matched.xlsx)")
	matchCmd.Flags().StringVar(&matchJournalCol, "journal-col", "", "Journal column name (default: auto-detect)")
	matchCmd.Flags().StringVar(&matchYearCol, "year-col", "", "Year column name (default: auto-detect)")
	matchCmd.Flags().IntVar(&matchFrom, "from", 0, "First ranking year to load")
	matchCmd.Flags().IntVar(&matchTo, "to", 0, "Last ranking year to load")
	matchCmd.Flags().BoolVar(&matchDryRun, "dry-run", false, "Report match results without writing the output file")
	matchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match each record to its year-specific quartile",
	Long: `Match each record in the main dataset to its journal's quartile from
the ranking table of the record's publication year.

A record is only ever looked up in the table for its exact year; years
without a ranking file leave their records unmatched. Unmatched records
get the explicit sentinel "NOT FOUND" rather than being dropped, so the
output always has the same rows as the input.

Examples:
  sjrmatch match --input second_filter.xlsx --dir ./sjr
  sjrmatch match --input main.xlsx --sheet "rank filter" --dry-run`,
	RunE: runMatch,
}

// MatchReport is the JSON result of a match run.
type MatchReport struct {
	Input         string          `json:"input"`
	Output        string          `json:"output,omitempty"`
	Sheet         string          `json:"sheet"`
	JournalColumn string          `json:"journal_column"`
	YearColumn    string          `json:"year_column"`
	DryRun        bool            `json:"dry_run"`
	YearsLoaded   []int           `json:"years_loaded"`
	MissingYears  []int           `json:"missing_years,omitempty"`
	Summary       matcher.Summary `json:"summary"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	opts, err := config.Resolve(config.Options{
		Dir:        matchDir,
		Sheet:      matchSheet,
		JournalCol: matchJournalCol,
		YearCol:    matchYearCol,
		StartYear:  matchFrom,
		EndYear:    matchTo,
	})
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

	ds, err := dataset.Read(matchInput, opts.Sheet, opts.JournalCol, opts.YearCol)
	if err != nil {
		exitWithError(ExitDataError, "reading dataset: %v", err)
	}

	results, summary := matcher.Match(ds.Records, tables)

	report := MatchReport{
		Input:         matchInput,
		Sheet:         ds.Sheet,
		JournalColumn: ds.Header[ds.JournalCol],
		YearColumn:    ds.Header[ds.YearCol],
		DryRun:        matchDryRun,
		YearsLoaded:   tables.Years(),
		MissingYears:  missing,
		Summary:       summary,
	}

	if !matchDryRun {
		out := matchOut
		if out == "" {
			out = derivedOutputPath(matchInput, "_matched")
		}
		quartiles, ranks := matchedColumns(results)
		if err := ds.WriteMatched(out, config.QuartileColumn, quartiles, config.RankColumn, ranks); err != nil {
			exitWithError(ExitError, "writing output: %v", err)
		}
		report.Output = out
	}

	if humanOutput {
		printMatchReport(report)
		return nil
	}
	return outputJSON(report)
}

// matchedColumns converts match results into output cell values, one per
// row, using the unmatched sentinel where no quartile was found. ranks is
// nil when no result carries a rank, so the rank column is only added to
// the output when the ranking source actually had one.
func matchedColumns(results []matcher.Result) (quartiles, ranks []string) {
	quartiles = make([]string, len(results))
	ranks = make([]string, len(results))
	hasRank := false
	for i, r := range results {
		if !r.Matched {
			quartiles[i] = matcher.Unmatched
			continue
		}
		quartiles[i] = string(r.Quartile)
		if r.Rank > 0 {
			ranks[i] = strconv.Itoa(r.Rank)
			hasRank = true
		}
	}
	if !hasRank {
		return quartiles, nil
	}
	return quartiles, ranks
}

// derivedOutputPath inserts a suffix before the file extension.
func derivedOutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

func printMatchReport(r MatchReport) {
	if r.DryRun {
		fmt.Println("Dry run - no output written")
	} else {
		fmt.Printf("Output: %s\n", r.Output)
	}
	fmt.Printf("Sheet: %s\n", r.Sheet)
	fmt.Printf("Journal column: %s | Year column: %s\n", r.JournalColumn, r.YearColumn)
	fmt.Printf("Years loaded: %d", len(r.YearsLoaded))
	if len(r.MissingYears) > 0 {
		fmt.Printf(" (missing: %v)", r.MissingYears)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println("Counts by quartile:")
	printQuartileCounts(r.Summary.ByQuartile)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Matched: %d\n", r.Summary.Matched)
	fmt.Printf("NOT FOUND: %d\n", r.Summary.Unmatched)
	if r.Summary.BadYearRows > 0 {
		fmt.Printf("Rows with missing/bad year: %d\n", r.Summary.BadYearRows)
	}
	if len(r.Summary.UncoveredYears) > 0 {
		fmt.Printf("Years without a table: %v\n", r.Summary.UncoveredYears)
	}
	fmt.Printf("TOTAL ROWS: %d\n", r.Summary.Total)
}
