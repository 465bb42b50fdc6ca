package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrlkz/arcurate/internal/utils"
	"github.com/vrlkz/arcurate/pkg/archive"
	"github.com/vrlkz/arcurate/pkg/curation"
	"github.com/vrlkz/arcurate/pkg/export"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search archive.org and score the results",
	Long: `Runs the curation pipeline for one or all configured categories and
prints the scored results. Use --export / --json to write the deduplicated
passing items to a file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		showAll, _ := cmd.Flags().GetBool("show-all")
		details, _ := cmd.Flags().GetBool("details")
		noMetadata, _ := cmd.Flags().GetBool("no-metadata")
		withFiles, _ := cmd.Flags().GetBool("with-files")
		csvPath, _ := cmd.Flags().GetString("export")
		jsonPath, _ := cmd.Flags().GetString("json")
		appendExisting, _ := cmd.Flags().GetBool("append")
		categoriesFile, _ := cmd.Flags().GetString("categories-file")

		categories, cfg, err := loadCurationConfigs(cmd, categoriesFile)
		if err != nil {
			return err
		}
		if categories, err = selectCategories(categories, category); err != nil {
			return err
		}

		client := archive.NewClient()
		pipeline := &curation.Pipeline{
			Search:   client,
			Metadata: client,
			Config:   cfg,
			Log:      utils.Log,
		}
		opts := curation.CategoryOptions{
			MaxResultsPerTerm: maxResults,
			FetchEnrichment:   !noMetadata,
			IncludeFiles:      withFiles,
		}

		var allItems []curation.Item
		for _, name := range categories.Names() {
			items, err := pipeline.RunCategory(cmd.Context(), name, categories[name], opts)
			if err != nil {
				return err
			}

			fmt.Println(export.RenderTable(items, showAll))
			if details {
				for _, item := range items {
					if showAll || item.Confidence.Passes {
						fmt.Println(export.RenderDetails(item))
					}
				}
			}
			allItems = append(allItems, items...)
		}

		if csvPath == "" && jsonPath == "" {
			return nil
		}

		exportItems := allItems
		if !showAll {
			exportItems = curation.PassingItems(allItems)
		}
		exportItems = curation.DedupeAndCap(exportItems, cfg.MediatypeLimits)

		if csvPath != "" {
			total, added, err := export.ExportCSV(csvPath, exportItems, appendExisting)
			if err != nil {
				return err
			}
			if appendExisting {
				utils.Log.Infof("Added %d new items, %d total in %s", added, total, csvPath)
			} else {
				utils.Log.Infof("Exported %d items to %s", total, csvPath)
			}
		}
		if jsonPath != "" {
			n, err := export.ExportJSON(jsonPath, exportItems)
			if err != nil {
				return err
			}
			utils.Log.Infof("Exported %d items to %s", n, jsonPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("category", "c", "", "Only run a single category")
	searchCmd.Flags().IntP("max-results", "m", 50, "Maximum search results per term")
	searchCmd.Flags().BoolP("show-all", "a", false, "Show and export items below the confidence threshold too")
	searchCmd.Flags().BoolP("details", "d", false, "Print per-item scoring breakdown")
	searchCmd.Flags().Bool("no-metadata", false, "Skip the metadata enrichment phase (faster, less accurate)")
	searchCmd.Flags().Bool("with-files", false, "Fetch file listings during enrichment (slow, enables format bonus)")
	searchCmd.Flags().StringP("export", "e", "", "Export results to a CSV file")
	searchCmd.Flags().String("json", "", "Export results to a JSON file")
	searchCmd.Flags().Bool("append", false, "Merge into an existing CSV export instead of overwriting")
	searchCmd.Flags().StringP("categories-file", "f", "", "Alternate categories file (relative to configdir)")
}
