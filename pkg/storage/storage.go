// Package storage persists curated items to a local SQLite database. The
// store is append-only by identifier: re-running a curation never rewrites
// a row that is already there, so history survives score changes.
package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vrlkz/arcurate/pkg/curation"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS curated_items (
  id               INTEGER PRIMARY KEY,
  identifier       TEXT NOT NULL UNIQUE,
  title            TEXT NOT NULL,
  mediatype        TEXT NOT NULL,
  url              TEXT NOT NULL,
  category         TEXT NOT NULL,
  search_term      TEXT NOT NULL,
  confidence_score INTEGER NOT NULL,
  creator          TEXT,
  publisher        TEXT,
  page_count       INTEGER,
  added_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_curated_category ON curated_items(category);
CREATE INDEX IF NOT EXISTS idx_curated_mediatype ON curated_items(mediatype);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// InsertCurated appends rows whose identifiers are not yet present and
// returns how many were actually added. Existing rows are left untouched
// even when the new score differs, so repeated runs are idempotent.
func (d *DB) InsertCurated(ctx context.Context, rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	added := 0
	for _, row := range rows {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
INSERT INTO curated_items(identifier, title, mediatype, url, category, search_term, confidence_score, creator, publisher, page_count)
VALUES(?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(identifier) DO NOTHING`,
			row.Identifier, row.Title, row.Mediatype, row.URL, row.Category, row.SearchTerm,
			row.Score, nullIfEmpty(row.Creator), nullIfEmpty(row.Publisher), nullIfNilInt(row.PageCount))
		if err != nil {
			return 0, err
		}
		var n int64
		n, err = res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// ListOptions controls selection when listing curated rows.
type ListOptions struct {
	Category  string
	Mediatype string
	MinScore  int
	Limit     int
}

// ListCurated returns persisted rows matching the filters, newest first.
func (d *DB) ListCurated(ctx context.Context, opts ListOptions) ([]Row, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Category != "" {
		where += " AND category = ?"
		args = append(args, opts.Category)
	}
	if opts.Mediatype != "" {
		where += " AND mediatype = ?"
		args = append(args, opts.Mediatype)
	}
	if opts.MinScore > 0 {
		where += " AND confidence_score >= ?"
		args = append(args, opts.MinScore)
	}
	q := "SELECT identifier, title, mediatype, url, category, search_term, confidence_score, creator, publisher, page_count, added_at FROM curated_items " + where + " ORDER BY added_at DESC, identifier"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var creator, publisher sql.NullString
		var pageCount sql.NullInt64
		var addedAtStr string
		if err := rows.Scan(&r.Identifier, &r.Title, &r.Mediatype, &r.URL, &r.Category, &r.SearchTerm, &r.Score, &creator, &publisher, &pageCount, &addedAtStr); err != nil {
			return nil, err
		}
		r.Creator = creator.String
		r.Publisher = publisher.String
		if pageCount.Valid {
			n := int(pageCount.Int64)
			r.PageCount = &n
		}
		r.AddedAt = parseTimestamp(addedAtStr)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// KnownIdentifiers returns every persisted identifier, for skip lookups.
func (d *DB) KnownIdentifiers(ctx context.Context) (map[string]bool, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT identifier FROM curated_items")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	known := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		known[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return known, nil
}

// GetStats summarizes the store per category.
func (d *DB) GetStats(ctx context.Context) ([]CategoryStats, error) {
	query := `
		SELECT
			category,
			COUNT(*),
			AVG(confidence_score)
		FROM
			curated_items
		GROUP BY
			category
		ORDER BY
			category;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CategoryStats
	for rows.Next() {
		var s CategoryStats
		if err := rows.Scan(&s.Category, &s.ItemCount, &s.AvgScore); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// RowFromItem converts a scored item to its persisted form.
func RowFromItem(item curation.Item) Row {
	return Row{
		Identifier: item.Identifier,
		Title:      item.Title,
		Mediatype:  item.Mediatype,
		URL:        item.URL,
		Category:   item.Category,
		SearchTerm: item.SearchTerm,
		Score:      item.Confidence.Score,
		Creator:    item.Creator,
		Publisher:  item.Publisher,
		PageCount:  item.PageCount,
	}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfNilInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

func parseTimestamp(s string) time.Time {
	// Parse SQLite CURRENT_TIMESTAMP format, then RFC3339.
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
