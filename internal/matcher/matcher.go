// Package matcher assigns year-specific quartiles to dataset records.
package matcher

import (
	"sort"

	"github.com/slrkit/sjrmatch/internal/dataset"
	"github.com/slrkit/sjrmatch/internal/normalize"
	"github.com/slrkit/sjrmatch/internal/ranking"
)

// Unmatched is the sentinel written for records that could not be matched,
// so downstream filters can distinguish "no data" from an empty cell.
const Unmatched = "NOT FOUND"

// Reasons a record stayed unmatched.
const (
	ReasonBadYear     = "bad_year"      // Year cell missing or non-numeric
	ReasonNoYearTable = "no_year_table" // No ranking table loaded for the year
	ReasonNoMatch     = "no_match"      // Key absent from the year's table
)

// Result is the match outcome for a single record.
type Result struct {
	Row      int              `json:"row"`
	Matched  bool             `json:"matched"`
	Quartile ranking.Quartile `json:"quartile,omitempty"`
	Rank     int              `json:"rank,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

// Summary aggregates a matching run.
type Summary struct {
	Total          int            `json:"total"`
	Matched        int            `json:"matched"`
	Unmatched      int            `json:"unmatched"`
	BadYearRows    int            `json:"bad_year_rows"`
	ByQuartile     map[string]int `json:"by_quartile"`
	UncoveredYears []int          `json:"uncovered_years,omitempty"`
}

// Match looks up each record in the table for its exact publication year.
// There is no fallback to adjacent years: a record from an uncovered year
// is unmatched. Records are never dropped; every input record produces
// exactly one result, in input order. The tables are not modified.
func Match(records []dataset.Record, tables *ranking.Set) ([]Result, Summary) {
	results := make([]Result, 0, len(records))
	summary := Summary{Total: len(records), ByQuartile: make(map[string]int)}
	uncovered := make(map[int]bool)

	for _, rec := range records {
		res := Result{Row: rec.Row}

		switch {
		case !rec.YearValid:
			res.Reason = ReasonBadYear
			summary.BadYearRows++
		default:
			table, ok := tables.Table(rec.Year)
			if !ok {
				res.Reason = ReasonNoYearTable
				uncovered[rec.Year] = true
				break
			}
			entry, found := table.Get(normalize.Title(rec.Journal))
			if !found {
				res.Reason = ReasonNoMatch
				break
			}
			res.Matched = true
			res.Quartile = entry.Quartile
			res.Rank = entry.Rank
		}

		if res.Matched {
			summary.Matched++
			summary.ByQuartile[string(res.Quartile)]++
		} else {
			summary.Unmatched++
			summary.ByQuartile[Unmatched]++
		}
		results = append(results, res)
	}

	for y := range uncovered {
		summary.UncoveredYears = append(summary.UncoveredYears, y)
	}
	sort.Ints(summary.UncoveredYears)

	return results, summary
}
