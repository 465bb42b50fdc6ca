// Package export renders curated items to CSV, JSON, and terminal tables.
// The CSV column set is a stable contract: downstream viewers key rows by
// identifier, so columns are only ever appended.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/vrlkz/arcurate/pkg/curation"
)

var csvHeader = []string{
	"category",
	"search_term",
	"title",
	"identifier",
	"url",
	"mediatype",
	"confidence_score",
	"creator",
	"publisher",
	"page_count",
}

// Row is one exported CSV record.
type Row struct {
	Category   string
	SearchTerm string
	Title      string
	Identifier string
	URL        string
	Mediatype  string
	Score      int
	Creator    string
	Publisher  string
	PageCount  string // empty when unknown
}

// RowFromItem converts a scored item to its CSV form.
func RowFromItem(item curation.Item) Row {
	pageCount := ""
	if item.PageCount != nil {
		pageCount = strconv.Itoa(*item.PageCount)
	}
	return Row{
		Category:   item.Category,
		SearchTerm: item.SearchTerm,
		Title:      item.Title,
		Identifier: item.Identifier,
		URL:        item.URL,
		Mediatype:  item.Mediatype,
		Score:      item.Confidence.Score,
		Creator:    item.Creator,
		Publisher:  item.Publisher,
		PageCount:  pageCount,
	}
}

// MergeRows appends the new rows whose identifiers are not already in
// existing. Existing rows are never updated, even when the new score
// differs; merging the same set twice adds nothing the second time. The
// merged set and the count of rows actually added are returned.
func MergeRows(newRows, existing []Row) ([]Row, int) {
	merged := make([]Row, len(existing), len(existing)+len(newRows))
	copy(merged, existing)

	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		seen[row.Identifier] = true
	}

	added := 0
	for _, row := range newRows {
		if seen[row.Identifier] {
			continue
		}
		seen[row.Identifier] = true
		merged = append(merged, row)
		added++
	}
	return merged, added
}

// ReadCSV loads previously exported rows. A missing file is an empty set,
// not an error, so first runs and append runs share one code path.
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(csvHeader) {
			continue
		}
		score, _ := strconv.Atoi(rec[6])
		rows = append(rows, Row{
			Category:   rec[0],
			SearchTerm: rec[1],
			Title:      rec[2],
			Identifier: rec[3],
			URL:        rec[4],
			Mediatype:  rec[5],
			Score:      score,
			Creator:    rec[7],
			Publisher:  rec[8],
			PageCount:  rec[9],
		})
	}
	return rows, nil
}

// WriteCSV writes the full row set with header.
func WriteCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Category,
			row.SearchTerm,
			row.Title,
			row.Identifier,
			row.URL,
			row.Mediatype,
			strconv.Itoa(row.Score),
			row.Creator,
			row.Publisher,
			row.PageCount,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportCSV writes items to a CSV file. With appendExisting set it merges
// into whatever the file already holds instead of overwriting. Returns the
// total row count and how many rows were newly added.
func ExportCSV(path string, items []curation.Item, appendExisting bool) (total, added int, err error) {
	newRows := make([]Row, 0, len(items))
	for _, item := range items {
		newRows = append(newRows, RowFromItem(item))
	}

	var existing []Row
	if appendExisting {
		existing, err = ReadCSV(path)
		if err != nil {
			return 0, 0, err
		}
	}

	merged, added := MergeRows(newRows, existing)
	if err := WriteCSV(path, merged); err != nil {
		return 0, 0, err
	}
	return len(merged), added, nil
}
