package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slrkit/sjrmatch/internal/dataset"
	"github.com/slrkit/sjrmatch/internal/normalize"
)

var (
	dedupeInput  string
	dedupeSheet  string
	dedupeOut    string
	dedupeDryRun bool
	dedupeApply  bool
)

func init() {
	dedupeCmd.Flags().StringVar(&dedupeInput, "input", "", "Main dataset spreadsheet (required)")
	dedupeCmd.Flags().StringVar(&dedupeSheet, "sheet", "", "Sheet name (default: first sheet)")
	dedupeCmd.Flags().StringVar(&dedupeOut, "out", "", "Output file (default: <input>_deduped.xlsx)")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Show duplicates without making changes")
	dedupeCmd.Flags().BoolVar(&dedupeApply, "apply", false, "Write a copy with duplicates removed (keep first)")
	dedupeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and remove duplicate bibliographic records",
	Long: `Find and remove duplicate records in the main dataset.

Records are grouped by DOI when present, otherwise by normalized article
title plus publication year. Within each group the first record is kept
and later ones are removed. The input file is never modified; --apply
writes a new file.

Examples:
  sjrmatch dedupe --input merged.xlsx --dry-run
  sjrmatch dedupe --input merged.xlsx --apply --out no_duplicates.xlsx`,
	RunE: runDedupe,
}

// DuplicateGroup represents a set of duplicate records. Row numbers are
// 1-based spreadsheet rows (the header is row 1).
type DuplicateGroup struct {
	Key       string `json:"key"`
	MatchedBy string `json:"matched_by"` // doi or title_year
	Primary   int    `json:"primary_row"`
	Removed   []int  `json:"removed_rows"`
}

// DedupeReport is the JSON result of a dedupe run.
type DedupeReport struct {
	Input      string           `json:"input"`
	Output     string           `json:"output,omitempty"`
	DryRun     bool             `json:"dry_run"`
	Groups     []DuplicateGroup `json:"groups"`
	TotalDupes int              `json:"total_duplicates"`
	RowsKept   int              `json:"rows_kept"`
}

func runDedupe(cmd *cobra.Command, args []string) error {
	if !dedupeDryRun && !dedupeApply {
		return fmt.Errorf("must specify either --dry-run or --apply")
	}

	ds, err := dataset.Read(dedupeInput, dedupeSheet, "", "")
	if err != nil {
		exitWithError(ExitDataError, "reading dataset: %v", err)
	}

	groups := findDuplicateGroups(ds.Records)
	totalDupes := 0
	for _, g := range groups {
		totalDupes += len(g.Removed)
	}

	report := DedupeReport{
		Input:      dedupeInput,
		DryRun:     dedupeDryRun,
		Groups:     groups,
		TotalDupes: totalDupes,
		RowsKept:   len(ds.Rows) - totalDupes,
	}

	if dedupeDryRun {
		reportDedupe(report)
		return nil
	}

	keep := make([]bool, len(ds.Rows))
	for i := range keep {
		keep[i] = true
	}
	for _, g := range groups {
		for _, row := range g.Removed {
			keep[row-2] = false
		}
	}

	out := dedupeOut
	if out == "" {
		out = derivedOutputPath(dedupeInput, "_deduped")
	}
	if err := ds.WriteSubset(out, keep); err != nil {
		exitWithError(ExitError, "writing output: %v", err)
	}
	report.Output = out

	reportDedupe(report)
	return nil
}

// findDuplicateGroups groups records sharing a dedupe key, in first-seen
// order. Records with neither a DOI nor a title+valid year are never
// considered duplicates of anything.
func findDuplicateGroups(records []dataset.Record) []DuplicateGroup {
	byKey := make(map[string]int) // key -> index into groups-in-progress
	type group struct {
		key       string
		matchedBy string
		rows      []int
	}
	var working []group

	for _, rec := range records {
		key, matchedBy := dedupeKey(rec)
		if key == "" {
			continue
		}
		row := rec.Row + 2 // 1-based sheet row, header is row 1
		if idx, ok := byKey[key]; ok {
			working[idx].rows = append(working[idx].rows, row)
			continue
		}
		byKey[key] = len(working)
		working = append(working, group{key: key, matchedBy: matchedBy, rows: []int{row}})
	}

	var groups []DuplicateGroup
	for _, g := range working {
		if len(g.rows) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Key:       g.key,
			MatchedBy: g.matchedBy,
			Primary:   g.rows[0],
			Removed:   g.rows[1:],
		})
	}
	return groups
}

// dedupeKey derives the grouping key for a record: DOI first, then
// normalized title plus year. Returns "" when the record has neither.
func dedupeKey(rec dataset.Record) (key, matchedBy string) {
	if rec.DOI != "" {
		return "doi:" + strings.ToLower(rec.DOI), "doi"
	}
	if rec.Title != "" && rec.YearValid {
		return fmt.Sprintf("title:%s:%d", normalize.Title(rec.Title), rec.Year), "title_year"
	}
	return "", ""
}

func reportDedupe(r DedupeReport) {
	if !humanOutput {
		outputJSON(r)
		return
	}

	if len(r.Groups) == 0 {
		fmt.Println("No duplicates found.")
		return
	}
	fmt.Printf("Found %d duplicate groups (%d total duplicates):\n\n", len(r.Groups), r.TotalDupes)
	for _, g := range r.Groups {
		fmt.Printf("%s (%s)\n", truncateString(g.Key, 70), g.MatchedBy)
		fmt.Printf("  Keep row:    %d\n", g.Primary)
		fmt.Printf("  Remove rows: %v\n\n", g.Removed)
	}
	if r.DryRun {
		fmt.Println("Dry run - no output written.")
		return
	}
	fmt.Printf("Kept %d rows, removed %d. Saved to: %s\n", r.RowsKept, r.TotalDupes, r.Output)
}
