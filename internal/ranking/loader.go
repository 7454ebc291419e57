package ranking

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/slrkit/sjrmatch/internal/normalize"
)

// Column header candidates, matched case-insensitively after trimming.
// SCImago exports have used all three quartile spellings over the years.
var (
	titleColumns    = []string{"title"}
	quartileColumns = []string{"sjr best quartile", "best quartile", "quartile"}
	rankColumns     = []string{"rank"}
)

// LoadFile parses one ranking spreadsheet into entries, preserving source
// row order. Rows without a title or with an unparseable quartile are
// skipped; the count of skipped rows is returned alongside the entries.
//
// Some SCImago exports are semicolon-delimited text saved with an .xlsx
// extension, which Excel re-wraps as one text cell per row. When the
// expected columns are not found, the sheet is re-parsed on that
// assumption before giving up.
func LoadFile(path string) ([]Entry, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening ranking file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("no sheets in %s", filepath.Base(path))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	entries, skipped, ok := entriesFromRows(rows)
	if !ok {
		if reparsed := reparseSemicolon(rows); reparsed != nil {
			entries, skipped, ok = entriesFromRows(reparsed)
		}
	}
	if !ok {
		return nil, 0, fmt.Errorf("title/quartile columns not found in %s", filepath.Base(path))
	}
	return entries, skipped, nil
}

// entriesFromRows extracts entries from header+data rows. The third return
// value is false when the required columns cannot be located.
func entriesFromRows(rows [][]string) ([]Entry, int, bool) {
	if len(rows) == 0 {
		return nil, 0, false
	}

	titleIdx := findColumn(rows[0], titleColumns)
	quartIdx := findColumn(rows[0], quartileColumns)
	rankIdx := findColumn(rows[0], rankColumns)
	if titleIdx < 0 || quartIdx < 0 {
		return nil, 0, false
	}

	var entries []Entry
	skipped := 0
	for _, row := range rows[1:] {
		title := strings.TrimSpace(cell(row, titleIdx))
		if title == "" {
			skipped++
			continue
		}
		q := ParseQuartile(cell(row, quartIdx))
		if !q.Known() {
			skipped++
			continue
		}

		rank := 0
		if rankIdx >= 0 {
			rank = parseRank(cell(row, rankIdx))
		}

		entries = append(entries, Entry{
			Title:    title,
			Key:      normalize.Title(title),
			Quartile: q,
			Rank:     rank,
		})
	}
	return entries, skipped, true
}

// reparseSemicolon joins each row's cells and re-reads the result as
// semicolon-delimited records. Returns nil if the content is not parseable.
func reparseSemicolon(rows [][]string) [][]string {
	var lines []string
	for _, row := range rows {
		joined := strings.Join(row, "")
		if strings.TrimSpace(joined) != "" {
			lines = append(lines, joined)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil
	}
	return records
}

// findColumn returns the index of the first header cell matching any
// candidate, case-insensitively, or -1.
func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), cand) {
				return i
			}
		}
	}
	return -1
}

// cell returns the trimmed value at idx, tolerating short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRank parses a rank cell, accepting integer values that Excel may
// have stored as floats. Returns 0 when absent or unparseable.
func parseRank(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return 0
}

// LoadYear loads the ranking file for one year into a table. Entries whose
// keys collide overwrite earlier ones (last-write-wins).
func LoadYear(path string, year int) (*YearTable, int, error) {
	entries, skipped, err := LoadFile(path)
	if err != nil {
		return nil, 0, err
	}
	t := NewYearTable(year)
	for _, e := range entries {
		t.Put(e)
	}
	return t, skipped, nil
}

// LoadSet loads every year in the configured range. A year whose file does
// not exist is skipped and reported in the missing list; that is the
// expected state for years the ranking source does not cover. Any other
// read failure is fatal.
func LoadSet(cfg Config) (*Set, []int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	set := NewSet()
	var missing []int
	for year := cfg.StartYear; year <= cfg.EndYear; year++ {
		path := cfg.FileForYear(year)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, year)
				continue
			}
			return nil, nil, fmt.Errorf("stat %s: %w", path, err)
		}

		table, _, err := LoadYear(path, year)
		if err != nil {
			return nil, nil, fmt.Errorf("year %d: %w", year, err)
		}
		set.Add(table)
	}
	return set, missing, nil
}
