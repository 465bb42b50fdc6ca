package storage

import "time"

// Row is one persisted curated item.
type Row struct {
	Identifier string
	Title      string
	Mediatype  string
	URL        string
	Category   string
	SearchTerm string
	Score      int
	Creator    string
	Publisher  string
	PageCount  *int
	AddedAt    time.Time
}

// CategoryStats summarizes persisted rows per category.
type CategoryStats struct {
	Category  string
	ItemCount int
	AvgScore  float64
}
