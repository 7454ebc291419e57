package dataset

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("naming sheet: %v", err)
		}
	} else {
		sheet = "Sheet1"
	}
	for r, row := range rows {
		for c, v := range row {
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving fixture: %v", err)
	}
	return path
}

func TestRead_AutoDetectColumns(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Title", "Source Title", "Year", "DOI"},
		{"A Study", "Journal of Informetrics", 2010, "10.1/a"},
		{"Another Study", "Acta Informatica", "2012.0", ""},
	})

	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ds.JournalCol != 1 || ds.YearCol != 2 || ds.TitleCol != 0 || ds.DOICol != 3 {
		t.Errorf("columns = journal %d, year %d, title %d, doi %d", ds.JournalCol, ds.YearCol, ds.TitleCol, ds.DOICol)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}

	rec := ds.Records[0]
	if rec.Journal != "Journal of Informetrics" || rec.Year != 2010 || !rec.YearValid {
		t.Errorf("record 0 = %+v", rec)
	}
	if rec.Title != "A Study" || rec.DOI != "10.1/a" {
		t.Errorf("record 0 title/doi = %q/%q", rec.Title, rec.DOI)
	}

	// Excel float year is accepted.
	if ds.Records[1].Year != 2012 || !ds.Records[1].YearValid {
		t.Errorf("record 1 year = %d valid %v, want 2012 valid", ds.Records[1].Year, ds.Records[1].YearValid)
	}
}

func TestRead_BadYearKeptInvalid(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Journal", "Year"},
		{"Acta Informatica", "n.d."},
		{"Journal of Informetrics", ""},
	})

	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("rows with bad years must be kept; got %d records", len(ds.Records))
	}
	for i, rec := range ds.Records {
		if rec.YearValid {
			t.Errorf("record %d: expected YearValid false, got true", i)
		}
	}
}

func TestRead_ExplicitColumnOverride(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Venue", "Published", "Source Title"},
		{"Acta Informatica", 2015, "decoy"},
	})

	ds, err := Read(path, "", "Venue", "Published")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ds.JournalCol != 0 || ds.YearCol != 1 {
		t.Errorf("columns = journal %d, year %d, want 0 and 1", ds.JournalCol, ds.YearCol)
	}
	if ds.Records[0].Journal != "Acta Informatica" {
		t.Errorf("journal = %q", ds.Records[0].Journal)
	}
}

func TestRead_MissingJournalColumn(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Title", "Year"},
		{"A Study", 2010},
	})

	// "Title" matches the title candidates, not the journal candidates.
	if _, err := Read(path, "", "", ""); err == nil {
		t.Fatal("expected error when no journal column can be found")
	}
}

func TestRead_NamedSheet(t *testing.T) {
	path := writeFixture(t, "rank filter", [][]interface{}{
		{"Journal", "Year"},
		{"Acta Informatica", 2015},
	})

	ds, err := Read(path, "rank filter", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ds.Sheet != "rank filter" {
		t.Errorf("Sheet = %q, want %q", ds.Sheet, "rank filter")
	}

	if _, err := Read(path, "no such sheet", "", ""); err == nil {
		t.Fatal("expected error for unknown sheet name")
	}
}

func TestWriteMatched_AppendsColumns(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Journal", "Year"},
		{"Acta Informatica", 2015},
		{"Unknown Venue", 2016},
	})
	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "matched.xlsx")
	quartiles := []string{"Q2", "NOT FOUND"}
	ranks := []string{"840", ""}
	if err := ds.WriteMatched(out, "Quartile_Matched", quartiles, "Rank_Matched", ranks); err != nil {
		t.Fatalf("WriteMatched() error = %v", err)
	}

	got := readAllRows(t, out)
	if len(got) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(got))
	}
	header := got[0]
	if header[2] != "Quartile_Matched" || header[3] != "Rank_Matched" {
		t.Errorf("header = %v", header)
	}
	if got[1][2] != "Q2" || got[1][3] != "840" {
		t.Errorf("row 1 = %v", got[1])
	}
	if got[2][2] != "NOT FOUND" {
		t.Errorf("row 2 = %v", got[2])
	}
	if len(got[2]) > 3 && got[2][3] != "" {
		t.Errorf("row 2 rank cell = %q, want empty", got[2][3])
	}
}

func TestWriteMatched_OverwritesExistingColumn(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Journal", "Year", "Quartile_Matched"},
		{"Acta Informatica", 2015, "stale"},
	})
	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "matched.xlsx")
	if err := ds.WriteMatched(out, "Quartile_Matched", []string{"Q1"}, "Rank_Matched", nil); err != nil {
		t.Fatalf("WriteMatched() error = %v", err)
	}

	got := readAllRows(t, out)
	if len(got[0]) != 3 {
		t.Errorf("expected column to be overwritten in place, header = %v", got[0])
	}
	if got[1][2] != "Q1" {
		t.Errorf("quartile cell = %q, want Q1", got[1][2])
	}
}

func TestWriteMatched_PreservesSiblingSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.xlsx")
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "rank filter"); err != nil {
		t.Fatalf("naming sheet: %v", err)
	}
	f.SetCellValue("rank filter", "A1", "Journal")
	f.SetCellValue("rank filter", "B1", "Year")
	f.SetCellValue("rank filter", "A2", "Acta Informatica")
	f.SetCellValue("rank filter", "B2", 2015)
	if _, err := f.NewSheet("first filter"); err != nil {
		t.Fatalf("adding sheet: %v", err)
	}
	f.SetCellValue("first filter", "A1", "upstream data")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving fixture: %v", err)
	}
	f.Close()

	ds, err := Read(path, "rank filter", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "matched.xlsx")
	if err := ds.WriteMatched(out, "Quartile_Matched", []string{"Q2"}, "Rank_Matched", nil); err != nil {
		t.Fatalf("WriteMatched() error = %v", err)
	}

	outF, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer outF.Close()

	sheets := outF.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("output sheets = %v, want both input sheets", sheets)
	}
	upstream, err := outF.GetCellValue("first filter", "A1")
	if err != nil {
		t.Fatalf("reading sibling sheet: %v", err)
	}
	if upstream != "upstream data" {
		t.Errorf("sibling sheet cell = %q, want %q", upstream, "upstream data")
	}
	matched, err := outF.GetCellValue("rank filter", "C2")
	if err != nil {
		t.Fatalf("reading matched sheet: %v", err)
	}
	if matched != "Q2" {
		t.Errorf("quartile cell = %q, want Q2", matched)
	}
}

func TestWriteMatched_RowWiderThanHeader(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Journal", "Year"},
		{"Acta Informatica", 2015, "stray note"},
	})
	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "matched.xlsx")
	if err := ds.WriteMatched(out, "Quartile_Matched", []string{"Q1"}, "Rank_Matched", nil); err != nil {
		t.Fatalf("WriteMatched() error = %v", err)
	}

	got := readAllRows(t, out)
	if got[0][3] != "Quartile_Matched" {
		t.Errorf("header = %v, want new column after the widest row", got[0])
	}
	if got[1][2] != "stray note" {
		t.Errorf("row = %v, trailing cell beyond the header must survive", got[1])
	}
	if got[1][3] != "Q1" {
		t.Errorf("row = %v, want Q1 in the appended column", got[1])
	}
}

func TestWriteSubset_PreservesSiblingSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Journal")
	f.SetCellValue("Sheet1", "B1", "Year")
	f.SetCellValue("Sheet1", "A2", "First")
	f.SetCellValue("Sheet1", "B2", 2010)
	f.SetCellValue("Sheet1", "A3", "Second")
	f.SetCellValue("Sheet1", "B3", 2011)
	if _, err := f.NewSheet("notes"); err != nil {
		t.Fatalf("adding sheet: %v", err)
	}
	f.SetCellValue("notes", "A1", "keep me")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving fixture: %v", err)
	}
	f.Close()

	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "subset.xlsx")
	if err := ds.WriteSubset(out, []bool{true, false}); err != nil {
		t.Fatalf("WriteSubset() error = %v", err)
	}

	outF, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer outF.Close()

	if sheets := outF.GetSheetList(); len(sheets) != 2 {
		t.Fatalf("output sheets = %v, want both input sheets", sheets)
	}
	note, err := outF.GetCellValue("notes", "A1")
	if err != nil {
		t.Fatalf("reading sibling sheet: %v", err)
	}
	if note != "keep me" {
		t.Errorf("sibling sheet cell = %q, want %q", note, "keep me")
	}
	rows, err := outF.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("reading subset sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("subset sheet has %d rows, want header + 1 kept row", len(rows))
	}
}

func TestWriteMatched_LengthMismatch(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Journal", "Year"},
		{"Acta Informatica", 2015},
	})
	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "matched.xlsx")
	if err := ds.WriteMatched(out, "Quartile_Matched", []string{"Q1", "Q2"}, "Rank_Matched", nil); err == nil {
		t.Fatal("expected error for quartile/row length mismatch")
	}
}

func TestWriteSubset(t *testing.T) {
	path := writeFixture(t, "", [][]interface{}{
		{"Journal", "Year"},
		{"First", 2010},
		{"Second", 2011},
		{"Third", 2012},
	})
	ds, err := Read(path, "", "", "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "subset.xlsx")
	if err := ds.WriteSubset(out, []bool{true, false, true}); err != nil {
		t.Fatalf("WriteSubset() error = %v", err)
	}

	got := readAllRows(t, out)
	if len(got) != 3 {
		t.Fatalf("expected header + 2 kept rows, got %d rows", len(got))
	}
	if got[1][0] != "First" || got[2][0] != "Third" {
		t.Errorf("kept rows = %v / %v, want First / Third", got[1], got[2])
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input string
		want  int
		valid bool
	}{
		{"2007", 2007, true},
		{"2007.0", 2007, true},
		{"", 0, false},
		{"in press", 0, false},
		{"2007.5", 0, false},
	}
	for _, tt := range tests {
		got, valid := parseYear(tt.input)
		if got != tt.want || valid != tt.valid {
			t.Errorf("parseYear(%q) = (%d, %v), want (%d, %v)", tt.input, got, valid, tt.want, tt.valid)
		}
	}
}

func readAllRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	return rows
}
