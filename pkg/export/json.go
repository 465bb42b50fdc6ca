package export

import (
	"encoding/json"
	"os"
	"time"

	"github.com/vrlkz/arcurate/pkg/curation"
)

type jsonItem struct {
	Title          string   `json:"title"`
	Identifier     string   `json:"identifier"`
	URL            string   `json:"url"`
	Mediatype      string   `json:"mediatype"`
	SearchTerm     string   `json:"search_term"`
	Category       string   `json:"category"`
	Score          int      `json:"confidence_score"`
	Passes         bool     `json:"passes"`
	Creator        string   `json:"creator,omitempty"`
	Publisher      string   `json:"publisher,omitempty"`
	PageCount      *int     `json:"page_count,omitempty"`
	ScoringReasons []string `json:"scoring_reasons"`
}

type jsonExport struct {
	ExportedAt time.Time  `json:"exported_at"`
	TotalItems int        `json:"total_items"`
	Items      []jsonItem `json:"items"`
}

// ExportJSON writes items with their full scoring breakdown.
func ExportJSON(path string, items []curation.Item) (int, error) {
	out := jsonExport{
		ExportedAt: time.Now(),
		TotalItems: len(items),
		Items:      make([]jsonItem, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, jsonItem{
			Title:          item.Title,
			Identifier:     item.Identifier,
			URL:            item.URL,
			Mediatype:      item.Mediatype,
			SearchTerm:     item.SearchTerm,
			Category:       item.Category,
			Score:          item.Confidence.Score,
			Passes:         item.Confidence.Passes,
			Creator:        item.Creator,
			Publisher:      item.Publisher,
			PageCount:      item.PageCount,
			ScoringReasons: item.Confidence.Reasons,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, err
	}
	return len(items), nil
}
