// Package dataset reads the main bibliographic spreadsheet and writes
// transformed copies of it. Reads never mutate the source file; every
// write produces a new workbook so a run can be repeated from the
// original input.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column header candidates for auto-detection, matched case-insensitively.
// Export tools disagree on what to call the journal column.
var (
	journalCandidates = []string{"journal", "source title", "source", "publication", "journal name"}
	yearCandidates    = []string{"year", "publication year", "pub year"}
	titleCandidates   = []string{"title", "article title", "document title"}
	doiCandidates     = []string{"doi"}
)

// Record is the matcher's view of one data row.
type Record struct {
	Row       int    // Index into Dataset.Rows
	Journal   string // Raw journal name
	Title     string // Article title, "" if the sheet has no title column
	DOI       string // "" if the sheet has no DOI column
	Year      int
	YearValid bool // False when the year cell is missing or non-numeric
}

// Dataset is one sheet of the main spreadsheet, held row-complete so that
// outputs preserve every original column and row.
type Dataset struct {
	Path   string
	Sheet  string
	Header []string
	Rows   [][]string

	JournalCol int
	YearCol    int
	TitleCol   int // -1 if absent
	DOICol     int // -1 if absent

	Records []Record
}

// Read loads a sheet from the spreadsheet at path. An empty sheet name
// selects the first sheet. journalCol and yearCol override column
// auto-detection when non-empty. Rows with a missing or non-numeric year
// are kept, with YearValid set to false.
func Read(path, sheet, journalCol, yearCol string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (have: %s)", sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	d := &Dataset{
		Path:   path,
		Sheet:  sheet,
		Header: rows[0],
		Rows:   rows[1:],
	}

	d.JournalCol = resolveColumn(d.Header, journalCol, journalCandidates)
	if d.JournalCol < 0 {
		return nil, fmt.Errorf("journal column not found (have: %s)", strings.Join(d.Header, ", "))
	}
	d.YearCol = resolveColumn(d.Header, yearCol, yearCandidates)
	if d.YearCol < 0 {
		return nil, fmt.Errorf("year column not found (have: %s)", strings.Join(d.Header, ", "))
	}
	d.TitleCol = resolveColumn(d.Header, "", titleCandidates)
	d.DOICol = resolveColumn(d.Header, "", doiCandidates)

	d.Records = make([]Record, len(d.Rows))
	for i, row := range d.Rows {
		rec := Record{
			Row:     i,
			Journal: cell(row, d.JournalCol),
			Title:   cell(row, d.TitleCol),
			DOI:     cell(row, d.DOICol),
		}
		rec.Year, rec.YearValid = parseYear(cell(row, d.YearCol))
		d.Records[i] = rec
	}
	return d, nil
}

// resolveColumn finds a column by explicit name, or by candidate list when
// the name is empty. Returns -1 when no column matches.
func resolveColumn(header []string, name string, candidates []string) int {
	if name != "" {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
				return i
			}
		}
		return -1
	}
	for _, cand := range candidates {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), cand) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseYear parses a publication-year cell. Excel frequently stores years
// as floats, so "2007.0" is accepted as 2007.
func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

// WriteMatched writes a copy of the workbook to path with quartile (and
// optionally rank) values in the named columns of the processed sheet. An
// existing column with the same name is overwritten in place; otherwise
// the column is appended after the widest data row, so rows wider than
// the header keep their trailing cells. Row count and order are preserved
// exactly, and sheets other than the processed one are carried over
// unchanged.
func (d *Dataset) WriteMatched(path, quartileCol string, quartiles []string, rankCol string, ranks []string) error {
	if len(quartiles) != len(d.Rows) {
		return fmt.Errorf("have %d quartile values for %d rows", len(quartiles), len(d.Rows))
	}
	if ranks != nil && len(ranks) != len(d.Rows) {
		return fmt.Errorf("have %d rank values for %d rows", len(ranks), len(d.Rows))
	}

	width := len(d.Header)
	for _, row := range d.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make([]string, width)
	copy(header, d.Header)
	qIdx := resolveColumn(d.Header, quartileCol, nil)
	if qIdx < 0 {
		qIdx = len(header)
		header = append(header, quartileCol)
	}
	rIdx := -1
	if ranks != nil {
		rIdx = resolveColumn(d.Header, rankCol, nil)
		if rIdx < 0 {
			rIdx = len(header)
			header = append(header, rankCol)
		}
	}

	out := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		padded := make([]string, len(header))
		copy(padded, row)
		padded[qIdx] = quartiles[i]
		if rIdx >= 0 {
			padded[rIdx] = ranks[i]
		}
		out[i] = padded
	}
	return d.writeRows(path, header, out)
}

// WriteSubset writes a copy of the workbook containing only the rows for
// which keep[i] is true, preserving original order. Sheets other than the
// processed one are carried over unchanged.
func (d *Dataset) WriteSubset(path string, keep []bool) error {
	if len(keep) != len(d.Rows) {
		return fmt.Errorf("have %d keep flags for %d rows", len(keep), len(d.Rows))
	}

	var out [][]string
	for i, row := range d.Rows {
		if keep[i] {
			out = append(out, row)
		}
	}
	return d.writeRows(path, d.Header, out)
}

// writeRows saves a copy of the source workbook to path with the processed
// sheet's contents replaced by header+rows. Starting from the source file
// keeps every sibling sheet in the output; review workbooks carry the
// earlier filter stages as separate sheets.
func (d *Dataset) writeRows(path string, header []string, rows [][]string) error {
	f, err := excelize.OpenFile(d.Path)
	if err != nil {
		return fmt.Errorf("reopening %s: %w", d.Path, err)
	}
	defer f.Close()

	old, err := f.GetRows(d.Sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %q: %w", d.Sheet, err)
	}
	for i := len(old); i >= 1; i-- {
		if err := f.RemoveRow(d.Sheet, i); err != nil {
			return fmt.Errorf("clearing row %d: %w", i, err)
		}
	}

	writeRow := func(rowNum int, values []string) error {
		for col, v := range values {
			if v == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(d.Sheet, cellName, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
