package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slrkit/sjrmatch/internal/config"
	"github.com/slrkit/sjrmatch/internal/ranking"
)

var (
	mergeYear int
	mergeOut  string
)

func init() {
	mergeCmd.Flags().IntVar(&mergeYear, "year", 0, "Ranking year of the input files (required)")
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "Output file (default: SJR<year>_QRank.xlsx)")
	mergeCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <file>...",
	Short: "Build a per-year quartile table from raw SCImago exports",
	Long: `Build the merged quartile table for one year from raw SCImago
subject-area exports.

Journal names are normalized to detect the same journal across subject
areas; when a journal appears more than once, the best quartile wins,
with SJR rank as tiebreak. Rows without a usable title or quartile are
skipped. The output is sorted by quartile, rank, then title.

Examples:
  sjrmatch merge --year 2007 "scimagojr 2007 CS.xlsx" "scimagojr 2007 Psych.xlsx"
  sjrmatch merge --year 1999 --out sjr/SJR1999_QRank.xlsx exports/*.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

// MergeReport is the JSON result of a merge run.
type MergeReport struct {
	Year        int            `json:"year"`
	Output      string         `json:"output"`
	SourceFiles []string       `json:"source_files"`
	SourceRows  int            `json:"source_rows"`
	Skipped     int            `json:"skipped_rows"`
	Journals    int            `json:"journals"`
	ByQuartile  map[string]int `json:"by_quartile"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	var all []ranking.Entry
	totalSkipped := 0
	for _, path := range args {
		entries, skipped, err := ranking.LoadFile(path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		all = append(all, entries...)
		totalSkipped += skipped
	}

	merged := ranking.MergeBest(all)
	if len(merged) == 0 {
		exitWithError(ExitDataError, "no usable rows in %d input file(s)", len(args))
	}

	out := mergeOut
	if out == "" {
		out = fmt.Sprintf(config.DefaultPattern, mergeYear)
	}
	if err := ranking.WriteTable(out, merged); err != nil {
		exitWithError(ExitError, "writing merged table: %v", err)
	}

	counts := make(map[string]int)
	for _, e := range merged {
		counts[string(e.Quartile)]++
	}

	report := MergeReport{
		Year:        mergeYear,
		Output:      out,
		SourceFiles: baseNames(args),
		SourceRows:  len(all),
		Skipped:     totalSkipped,
		Journals:    len(merged),
		ByQuartile:  counts,
	}

	if humanOutput {
		fmt.Printf("Merged %d source rows from %d file(s) into %d journals\n", report.SourceRows, len(args), report.Journals)
		if report.Skipped > 0 {
			fmt.Printf("Skipped %d malformed rows\n", report.Skipped)
		}
		fmt.Println("Counts by quartile:")
		printQuartileCounts(report.ByQuartile)
		fmt.Printf("Saved to: %s\n", report.Output)
		return nil
	}
	return outputJSON(report)
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
