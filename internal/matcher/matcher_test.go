package matcher

import (
	"testing"

	"github.com/slrkit/sjrmatch/internal/dataset"
	"github.com/slrkit/sjrmatch/internal/ranking"
)

func testTables(t *testing.T) *ranking.Set {
	t.Helper()
	set := ranking.NewSet()

	y2010 := ranking.NewYearTable(2010)
	y2010.Put(ranking.Entry{Title: "Journal of Informetrics", Key: "journal of informetrics", Quartile: ranking.Q1, Rank: 12})
	y2010.Put(ranking.Entry{Title: "Acta Informatica", Key: "acta informatica", Quartile: ranking.Q3, Rank: 840})
	set.Add(y2010)

	y2011 := ranking.NewYearTable(2011)
	y2011.Put(ranking.Entry{Title: "Acta Informatica", Key: "acta informatica", Quartile: ranking.Q2, Rank: 500})
	set.Add(y2011)

	return set
}

func TestMatch_ExactYearOnly(t *testing.T) {
	records := []dataset.Record{
		{Row: 0, Journal: "Acta Informatica", Year: 2010, YearValid: true},
		{Row: 1, Journal: "Acta Informatica", Year: 2011, YearValid: true},
	}

	results, _ := Match(records, testTables(t))
	if results[0].Quartile != ranking.Q3 {
		t.Errorf("2010 quartile = %s, want Q3", results[0].Quartile)
	}
	if results[1].Quartile != ranking.Q2 {
		t.Errorf("2011 quartile = %s, want Q2", results[1].Quartile)
	}
}

func TestMatch_NormalizesJournalName(t *testing.T) {
	records := []dataset.Record{
		{Row: 0, Journal: "The Journal of Informetrics", Year: 2010, YearValid: true},
		{Row: 1, Journal: "JOURNAL OF INFORMETRICS.", Year: 2010, YearValid: true},
	}

	results, summary := Match(records, testTables(t))
	for i, res := range results {
		if !res.Matched {
			t.Errorf("record %d: expected match, got reason %q", i, res.Reason)
		}
	}
	if summary.Matched != 2 {
		t.Errorf("Matched = %d, want 2", summary.Matched)
	}
}

func TestMatch_UncoveredYearNoFallback(t *testing.T) {
	records := []dataset.Record{
		// Present in 2010 and 2011 tables, but 2025 has no table.
		{Row: 0, Journal: "Acta Informatica", Year: 2025, YearValid: true},
	}

	results, summary := Match(records, testTables(t))
	if results[0].Matched {
		t.Fatal("expected no match for an uncovered year")
	}
	if results[0].Reason != ReasonNoYearTable {
		t.Errorf("reason = %q, want %q", results[0].Reason, ReasonNoYearTable)
	}
	if len(summary.UncoveredYears) != 1 || summary.UncoveredYears[0] != 2025 {
		t.Errorf("UncoveredYears = %v, want [2025]", summary.UncoveredYears)
	}
}

func TestMatch_BadYear(t *testing.T) {
	records := []dataset.Record{
		{Row: 0, Journal: "Acta Informatica", YearValid: false},
	}

	results, summary := Match(records, testTables(t))
	if results[0].Matched {
		t.Fatal("expected no match for a record without a valid year")
	}
	if results[0].Reason != ReasonBadYear {
		t.Errorf("reason = %q, want %q", results[0].Reason, ReasonBadYear)
	}
	if summary.BadYearRows != 1 {
		t.Errorf("BadYearRows = %d, want 1", summary.BadYearRows)
	}
}

func TestMatch_UnknownJournal(t *testing.T) {
	records := []dataset.Record{
		{Row: 0, Journal: "Nonexistent Quarterly", Year: 2010, YearValid: true},
	}

	results, _ := Match(records, testTables(t))
	if results[0].Matched {
		t.Fatal("expected no match for an unknown journal")
	}
	if results[0].Reason != ReasonNoMatch {
		t.Errorf("reason = %q, want %q", results[0].Reason, ReasonNoMatch)
	}
}

func TestMatch_EveryRecordProducesOneResult(t *testing.T) {
	records := []dataset.Record{
		{Row: 0, Journal: "Journal of Informetrics", Year: 2010, YearValid: true},
		{Row: 1, Journal: "Nonexistent Quarterly", Year: 2010, YearValid: true},
		{Row: 2, Journal: "Acta Informatica", YearValid: false},
		{Row: 3, Journal: "Acta Informatica", Year: 1980, YearValid: true},
	}

	results, summary := Match(records, testTables(t))
	if len(results) != len(records) {
		t.Fatalf("expected %d results, got %d", len(records), len(results))
	}
	for i, res := range results {
		if res.Row != records[i].Row {
			t.Errorf("result %d out of order: row %d", i, res.Row)
		}
	}
	if summary.Total != 4 || summary.Matched != 1 || summary.Unmatched != 3 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.ByQuartile["Q1"] != 1 {
		t.Errorf("ByQuartile[Q1] = %d, want 1", summary.ByQuartile["Q1"])
	}
	if summary.ByQuartile[Unmatched] != 3 {
		t.Errorf("ByQuartile[%s] = %d, want 3", Unmatched, summary.ByQuartile[Unmatched])
	}
}

func TestMatch_CaseInsensitiveLookup(t *testing.T) {
	set := ranking.NewSet()
	y2007 := ranking.NewYearTable(2007)
	y2007.Put(ranking.Entry{Title: "ACM Transactions on X", Key: "acm transactions on x", Quartile: ranking.Q1})
	set.Add(y2007)

	records := []dataset.Record{
		{Row: 0, Journal: "ACM Transactions on X", Year: 2007, YearValid: true},
		{Row: 1, Journal: "acm transactions on x", Year: 2007, YearValid: true},
	}

	results, _ := Match(records, set)
	for i, res := range results {
		if !res.Matched || res.Quartile != ranking.Q1 {
			t.Errorf("record %d: matched=%v quartile=%s, want Q1 match", i, res.Matched, res.Quartile)
		}
	}
}

func TestMatch_EmptyInput(t *testing.T) {
	results, summary := Match(nil, testTables(t))
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if summary.Total != 0 {
		t.Errorf("Total = %d, want 0", summary.Total)
	}
}
