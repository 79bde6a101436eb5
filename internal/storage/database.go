package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tempus/internal/interval"
)

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		return nil, err
	}

	return database, nil
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS intervals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			start_utc TEXT NOT NULL,
			end_utc TEXT,
			tags TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_intervals_start ON intervals(start_utc)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) InsertInterval(iv interval.Interval) (int64, error) {
	tags, err := json.Marshal(iv.Tags)
	if err != nil {
		return 0, err
	}

	var end sql.NullString
	if iv.End != nil {
		end = sql.NullString{String: iv.End.UTC().Format(interval.TimewFormat), Valid: true}
	}

	result, err := d.db.Exec(
		`INSERT INTO intervals (start_utc, end_utc, tags) VALUES (?, ?, ?)`,
		iv.Start.UTC().Format(interval.TimewFormat),
		end,
		string(tags),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetIntervalsInRange returns intervals starting inside [from, to), ordered
// by start time. Bounds are UTC instants; the upper bound is exclusive so a
// day range can be queried as [day, nextDay) without picking up an interval
// that starts exactly at the following midnight.
func (d *Database) GetIntervalsInRange(from, to time.Time) ([]interval.Interval, error) {
	rows, err := d.db.Query(
		`SELECT start_utc, end_utc, tags FROM intervals
		 WHERE start_utc >= ? AND start_utc < ?
		 ORDER BY start_utc ASC`,
		from.UTC().Format(interval.TimewFormat),
		to.UTC().Format(interval.TimewFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intervals []interval.Interval
	for rows.Next() {
		var startStr, tagsStr string
		var endStr sql.NullString

		if err := rows.Scan(&startStr, &endStr, &tagsStr); err != nil {
			return nil, err
		}

		iv := interval.Interval{}
		iv.Start, err = interval.ParseTimestamp(startStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt interval row: %w", err)
		}
		if endStr.Valid {
			end, err := interval.ParseTimestamp(endStr.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt interval row: %w", err)
			}
			iv.End = &end
		}
		if tagsStr != "" {
			if err := json.Unmarshal([]byte(tagsStr), &iv.Tags); err != nil {
				return nil, fmt.Errorf("corrupt interval tags: %w", err)
			}
		}

		intervals = append(intervals, iv)
	}

	return intervals, rows.Err()
}

// CountIntervals returns the number of stored intervals.
func (d *Database) CountIntervals() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM intervals`).Scan(&n)
	return n, err
}
