// Package ranking loads per-year SJR quartile tables and merges raw
// subject-area exports into them.
package ranking

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Quartile is an SJR quality tier. The zero value means the quartile is
// unknown (absent from the source or unparseable).
type Quartile string

const (
	Q1      Quartile = "Q1"
	Q2      Quartile = "Q2"
	Q3      Quartile = "Q3"
	Q4      Quartile = "Q4"
	Unknown Quartile = ""
)

var quartileOrder = map[Quartile]int{Q1: 1, Q2: 2, Q3: 3, Q4: 4}

// ParseQuartile parses a quartile cell value, tolerating surrounding
// quotes and whitespace. Anything other than Q1-Q4 is Unknown.
func ParseQuartile(s string) Quartile {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.ToUpper(strings.TrimSpace(s))
	if q := Quartile(s); q.Known() {
		return q
	}
	return Unknown
}

// Known reports whether q is one of Q1-Q4.
func (q Quartile) Known() bool {
	_, ok := quartileOrder[q]
	return ok
}

// Order returns the sort position of q: 1 (best) through 4, with Unknown
// sorting after all known quartiles.
func (q Quartile) Order() int {
	if o, ok := quartileOrder[q]; ok {
		return o
	}
	return len(quartileOrder) + 1
}

// Better reports whether q is a strictly higher tier than other.
func (q Quartile) Better(other Quartile) bool {
	return q.Order() < other.Order()
}

// Entry is one journal row from a ranking table.
type Entry struct {
	Title    string   // Title as it appears in the source
	Key      string   // Normalized lookup key
	Quartile Quartile //
	Rank     int      // SJR rank, 0 when the source has no rank column
}

// YearTable maps normalized journal keys to entries for a single year.
// It is built once by the loader and read-only afterwards.
type YearTable struct {
	Year    int
	entries map[string]Entry
}

// NewYearTable returns an empty table for the given year.
func NewYearTable(year int) *YearTable {
	return &YearTable{Year: year, entries: make(map[string]Entry)}
}

// Put inserts an entry. A later entry with the same key overwrites an
// earlier one: last-write-wins is the documented collision policy.
func (t *YearTable) Put(e Entry) {
	t.entries[e.Key] = e
}

// Get looks up an entry by normalized key.
func (t *YearTable) Get(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Len returns the number of entries in the table.
func (t *YearTable) Len() int {
	return len(t.entries)
}

// Entries returns the table contents sorted by key.
func (t *YearTable) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Set holds the loaded year tables for one run.
type Set struct {
	tables map[int]*YearTable
}

// NewSet returns an empty table set.
func NewSet() *Set {
	return &Set{tables: make(map[int]*YearTable)}
}

// Add registers a year table, replacing any table already held for that year.
func (s *Set) Add(t *YearTable) {
	s.tables[t.Year] = t
}

// Table returns the table for a year, if loaded.
func (s *Set) Table(year int) (*YearTable, bool) {
	t, ok := s.tables[year]
	return t, ok
}

// Years returns the covered years in ascending order.
func (s *Set) Years() []int {
	years := make([]int, 0, len(s.tables))
	for y := range s.tables {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Size returns the total number of entries across all tables.
func (s *Set) Size() int {
	n := 0
	for _, t := range s.tables {
		n += t.Len()
	}
	return n
}

// Config tells the loader where to find per-year ranking files.
// It is passed in explicitly; there is no package-level path state.
type Config struct {
	Dir       string // Base directory holding the yearly files
	StartYear int    // First year to load, inclusive
	EndYear   int    // Last year to load, inclusive
	Pattern   string // Filename pattern with a single %d year verb
}

// Validate checks that the config can produce file paths.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("ranking directory not set")
	}
	if !strings.Contains(c.Pattern, "%d") {
		return fmt.Errorf("filename pattern %q has no %%d year verb", c.Pattern)
	}
	if c.StartYear > c.EndYear {
		return fmt.Errorf("year range %d-%d is empty", c.StartYear, c.EndYear)
	}
	return nil
}

// FileForYear returns the path of the ranking file for a year.
func (c Config) FileForYear(year int) string {
	return filepath.Join(c.Dir, fmt.Sprintf(c.Pattern, year))
}
