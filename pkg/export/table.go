package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vrlkz/arcurate/internal/utils"
	"github.com/vrlkz/arcurate/pkg/curation"
)

// RenderTable renders items as a terminal table. With showAll false only
// passing items are included.
func RenderTable(items []curation.Item, showAll bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"SCORE", "", "TITLE", "TYPE", "TERM", "IDENTIFIER"})

	shown := 0
	for _, item := range items {
		if !showAll && !item.Confidence.Passes {
			continue
		}
		mark := " "
		if item.Confidence.Passes {
			mark = "*"
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(item.Confidence.Score),
			mark,
			utils.Truncate(item.Title, 60),
			item.Mediatype,
			item.SearchTerm,
			item.Identifier,
		})
		shown++
	}
	if shown == 0 {
		return "No items to display."
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignLeft},
	})
	return tw.Render()
}

// RenderDetails renders one item with its full scoring breakdown.
func RenderDetails(item curation.Item) string {
	var b strings.Builder
	status := "FAIL"
	if item.Confidence.Passes {
		status = "PASS"
	}
	fmt.Fprintf(&b, "%s (%s)\n", item.Title, item.Identifier)
	fmt.Fprintf(&b, "  [%s] Score: %d\n", status, item.Confidence.Score)
	fmt.Fprintf(&b, "  URL: %s\n", item.URL)
	fmt.Fprintf(&b, "  Type: %s  Term: %s  Category: %s\n", item.Mediatype, item.SearchTerm, item.Category)
	if item.Creator != "" {
		fmt.Fprintf(&b, "  Creator: %s\n", item.Creator)
	}
	if item.Publisher != "" {
		fmt.Fprintf(&b, "  Publisher: %s\n", item.Publisher)
	}
	if item.PageCount != nil {
		fmt.Fprintf(&b, "  Pages: %d\n", *item.PageCount)
	}
	if len(item.Confidence.Reasons) == 0 {
		b.WriteString("  No adjustments\n")
	} else {
		for _, reason := range item.Confidence.Reasons {
			fmt.Fprintf(&b, "  %s\n", reason)
		}
	}
	return b.String()
}
