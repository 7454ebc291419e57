// Package storage maintains the rebuildable SQLite lookup index over the
// loaded year tables. The index is derived data: it is wiped and rebuilt
// from the yearly ranking files and can be deleted at any time.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/slrkit/sjrmatch/internal/ranking"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Open opens or creates the index database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS rankings (
			year INTEGER NOT NULL,
			key TEXT NOT NULL,
			title TEXT NOT NULL,
			quartile TEXT NOT NULL,
			rank INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (year, key)
		);

		CREATE INDEX IF NOT EXISTS idx_rankings_key ON rankings(key);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the index and repopulates it from the loaded tables.
// Returns the number of entries inserted.
func (d *DB) Rebuild(set *ranking.Set) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rankings"); err != nil {
		return 0, fmt.Errorf("clearing rankings: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO rankings (year, key, title, quartile, rank)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, year := range set.Years() {
		table, _ := set.Table(year)
		for _, e := range table.Entries() {
			if _, err := stmt.Exec(year, e.Key, e.Title, string(e.Quartile), e.Rank); err != nil {
				return 0, fmt.Errorf("inserting %d/%s: %w", year, e.Key, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return count, nil
}

// LookupRow is one indexed ranking entry.
type LookupRow struct {
	Year     int              `json:"year"`
	Title    string           `json:"title"`
	Quartile ranking.Quartile `json:"quartile"`
	Rank     int              `json:"rank,omitempty"`
}

// Lookup returns the indexed entries for a normalized key, ordered by
// year. A year of 0 means all years.
func (d *DB) Lookup(key string, year int) ([]LookupRow, error) {
	query := "SELECT year, title, quartile, rank FROM rankings WHERE key = ?"
	args := []interface{}{key}
	if year != 0 {
		query += " AND year = ?"
		args = append(args, year)
	}
	query += " ORDER BY year"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var out []LookupRow
	for rows.Next() {
		var r LookupRow
		var q string
		if err := rows.Scan(&r.Year, &r.Title, &q, &r.Rank); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Quartile = ranking.Quartile(q)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the total number of indexed entries.
func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM rankings").Scan(&n)
	return n, err
}
