// Package config handles run options and the global configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/slrkit/sjrmatch/internal/ranking"
)

// Defaults for a run. The year range mirrors SCImago's coverage.
const (
	DefaultStartYear = 1999
	DefaultEndYear   = 2024
	DefaultPattern   = "SJR%d_QRank.xlsx"

	// Output column names added to the main dataset.
	QuartileColumn = "Quartile_Matched"
	RankColumn     = "Rank_Matched"

	// IndexFile is the lookup index filename inside the ranking directory.
	IndexFile = "rankings.db"
)

// EnvDir is the only supported environment override: the ranking
// directory. Loaded from the process environment or a .env file.
const EnvDir = "SJRMATCH_DIR"

// Options collects the settings a command run needs. Zero values mean
// "not set" and are filled in by Resolve.
type Options struct {
	Dir        string // Directory holding the per-year ranking files
	Sheet      string // Main dataset sheet name, "" = first sheet
	JournalCol string // Journal column override, "" = auto-detect
	YearCol    string // Year column override, "" = auto-detect
	StartYear  int
	EndYear    int
	Pattern    string
}

// Resolve fills unset options from, in order: the SJRMATCH_DIR environment
// variable (for the directory only), the global config file, and built-in
// defaults. Flag values already present in opts always win. A global
// config file that exists but cannot be parsed is an error, not an
// absent file.
func Resolve(opts Options) (Options, error) {
	global, err := LoadGlobal()
	if err != nil {
		return opts, err
	}

	if opts.Dir == "" {
		opts.Dir = os.Getenv(EnvDir)
	}
	if opts.Dir == "" {
		opts.Dir = global.SJRDir
	}
	opts.Dir = ExpandTilde(opts.Dir)

	if opts.Sheet == "" {
		opts.Sheet = global.Sheet
	}
	if opts.JournalCol == "" {
		opts.JournalCol = global.JournalCol
	}
	if opts.YearCol == "" {
		opts.YearCol = global.YearCol
	}
	if opts.StartYear == 0 {
		opts.StartYear = global.YearStart
	}
	if opts.StartYear == 0 {
		opts.StartYear = DefaultStartYear
	}
	if opts.EndYear == 0 {
		opts.EndYear = global.YearEnd
	}
	if opts.EndYear == 0 {
		opts.EndYear = DefaultEndYear
	}
	if opts.Pattern == "" {
		opts.Pattern = global.Pattern
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	return opts, nil
}

// RankingConfig converts resolved options into the loader's config.
func (o Options) RankingConfig() ranking.Config {
	return ranking.Config{
		Dir:       o.Dir,
		StartYear: o.StartYear,
		EndYear:   o.EndYear,
		Pattern:   o.Pattern,
	}
}

// IndexPath returns the lookup index path for a ranking directory.
func IndexPath(dir string) string {
	return filepath.Join(dir, IndexFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
