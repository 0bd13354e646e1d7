package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/timelinescraper/pkg/models"
	_ "modernc.org/sqlite"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(name, start_time)
	);
	CREATE INDEX IF NOT EXISTS idx_visits_date ON visits(date);

	CREATE TABLE IF NOT EXISTS day_totals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL UNIQUE,
		hours REAL NOT NULL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_day_totals_published ON day_totals(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertVisit inserts a visit, ignoring duplicates
func (db *DB) InsertVisit(v *models.Visit) error {
	query := `
	INSERT OR IGNORE INTO visits (date, name, start_time, end_time, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err := db.conn.Exec(query,
		v.Date.Format(dateLayout),
		v.Name,
		v.Start.UTC().Format(timestampLayout),
		v.End.UTC().Format(timestampLayout),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting visit: %w", err)
	}

	return nil
}

// ListVisits retrieves visits whose date falls in [since, until], ordered by start time.
// A zero since or until leaves that side open.
func (db *DB) ListVisits(since, until time.Time) ([]models.Visit, error) {
	query := `
	SELECT id, date, name, start_time, end_time
	FROM visits
	WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)
	ORDER BY start_time
	`

	sinceStr, untilStr := formatBound(since), formatBound(until)
	rows, err := db.conn.Query(query, sinceStr, sinceStr, untilStr, untilStr)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	var results []models.Visit
	for rows.Next() {
		var v models.Visit
		var dateStr, startStr, endStr string

		if err := rows.Scan(&v.ID, &dateStr, &v.Name, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if v.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}
		if v.Start, err = time.Parse(timestampLayout, startStr); err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}
		if v.End, err = time.Parse(timestampLayout, endStr); err != nil {
			return nil, fmt.Errorf("parsing end_time: %w", err)
		}

		results = append(results, v)
	}

	return results, rows.Err()
}

// UpsertDayTotal stores the hours for a day. A changed value is marked unpublished again.
func (db *DB) UpsertDayTotal(date time.Time, hours float64) error {
	query := `
	INSERT INTO day_totals (date, hours, created_at, published)
	VALUES (?, ?, ?, 0)
	ON CONFLICT(date) DO UPDATE SET
		hours = excluded.hours,
		published = CASE WHEN day_totals.hours = excluded.hours THEN day_totals.published ELSE 0 END
	`

	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.conn.Exec(query, date.Format(dateLayout), hours, createdAt); err != nil {
		return fmt.Errorf("upserting day total: %w", err)
	}
	return nil
}

// ListDayTotals retrieves all day totals, newest first
func (db *DB) ListDayTotals() ([]models.DayTotal, error) {
	return db.queryDayTotals(`
	SELECT id, date, hours, created_at
	FROM day_totals
	ORDER BY date DESC
	`)
}

// ListUnpublishedDayTotals retrieves day totals not yet published, newest first
func (db *DB) ListUnpublishedDayTotals() ([]models.DayTotal, error) {
	return db.queryDayTotals(`
	SELECT id, date, hours, created_at
	FROM day_totals
	WHERE published = 0
	ORDER BY date DESC
	`)
}

func (db *DB) queryDayTotals(query string) ([]models.DayTotal, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying day totals: %w", err)
	}
	defer rows.Close()

	var results []models.DayTotal
	for rows.Next() {
		var d models.DayTotal
		var dateStr, createdStr string

		if err := rows.Scan(&d.ID, &dateStr, &d.Hours, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if d.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}
		if d.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		results = append(results, d)
	}

	return results, rows.Err()
}

// MarkPublished marks a day total as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE day_totals SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking day total as published: %w", err)
	}
	return nil
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
