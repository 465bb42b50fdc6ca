package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vrlkz/arcurate/internal/utils"
	"github.com/vrlkz/arcurate/pkg/archive"
	"github.com/vrlkz/arcurate/pkg/curation"
	"github.com/vrlkz/arcurate/pkg/export"
	"github.com/vrlkz/arcurate/pkg/ialist"
	"github.com/vrlkz/arcurate/pkg/storage"
)

// curateCmd represents the curate command
var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Search, score, and add passing items to an archive.org list",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		skipExisting, _ := cmd.Flags().GetBool("skip-existing")
		minConfidence, _ := cmd.Flags().GetInt("min-confidence")
		categoriesFile, _ := cmd.Flags().GetString("categories-file")
		listName, _ := cmd.Flags().GetString("list")
		rateLimit, _ := cmd.Flags().GetDuration("rate-limit")
		dbPath, _ := cmd.Flags().GetString("dbpath")
		if dbPath == "" {
			dbPath = viper.GetString("db.path")
		}

		categories, cfg, err := loadCurationConfigs(cmd, categoriesFile)
		if err != nil {
			return err
		}
		if categories, err = selectCategories(categories, category); err != nil {
			return err
		}
		if minConfidence >= 0 {
			cfg.MinConfidence = minConfidence
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		lists, err := loadLists(cmd)
		if err != nil {
			return err
		}
		def, err := resolveList(lists, listName)
		if err != nil {
			return err
		}
		listCfg, err := listConfigFor(def)
		if err != nil {
			return err
		}
		utils.Log.Infof("Target list: %s", listCfg.URL())
		if dryRun {
			utils.Log.Infof("DRY RUN MODE - no changes will be made")
		}

		listClient := ialist.NewClient()
		existing := map[string]bool{}
		if skipExisting {
			existing, err = listClient.ExistingItems(cmd.Context(), listCfg)
			if err != nil {
				return fmt.Errorf("fetch existing list items: %w", err)
			}
			utils.Log.Infof("Found %d items already in the list", len(existing))
		}

		var db *storage.DB
		if dbPath != "" && !dryRun {
			db, err = storage.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database %s: %w", dbPath, err)
			}
			defer db.Close()
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
			FetchEnrichment:   true,
		}

		totalAdded, totalFailed, totalSkipped := 0, 0, 0
		for _, name := range categories.Names() {
			items, err := pipeline.RunCategory(cmd.Context(), name, categories[name], opts)
			if err != nil {
				return err
			}

			passing := curation.DedupeAndCap(curation.PassingItems(items), cfg.MediatypeLimits)

			if skipExisting {
				kept := passing[:0]
				for _, item := range passing {
					if existing[item.Identifier] {
						totalSkipped++
						continue
					}
					kept = append(kept, item)
				}
				passing = kept
			}

			if len(passing) == 0 {
				utils.Log.Infof("No new items to add for %s", name)
				continue
			}

			utils.Log.Infof("Adding %d items from %s", len(passing), name)
			fmt.Println(export.RenderTable(passing, false))

			added, failed := listClient.AddItems(cmd.Context(), passing, listCfg, ialist.AddOptions{
				RateLimit: rateLimit,
				DryRun:    dryRun,
				Log:       utils.Log,
			})
			totalAdded += len(added)
			totalFailed += failed

			if db != nil && len(added) > 0 {
				rows := make([]storage.Row, len(added))
				for i, item := range added {
					rows[i] = storage.RowFromItem(item)
				}
				n, err := db.InsertCurated(cmd.Context(), rows)
				if err != nil {
					utils.Log.Warnf("Could not record curated items: %v", err)
				} else {
					utils.Log.Debugf("Recorded %d new rows in %s", n, dbPath)
				}
			}
		}

		utils.Log.Infof("Done. Added: %d, failed: %d, skipped (existing): %d", totalAdded, totalFailed, totalSkipped)
		if dryRun {
			utils.Log.Infof("This was a dry run. Re-run without --dry-run to actually add items.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(curateCmd)
	curateCmd.Flags().StringP("category", "c", "", "Only run a single category")
	curateCmd.Flags().IntP("max-results", "m", 50, "Maximum search results per term")
	curateCmd.Flags().Bool("dry-run", false, "Show what would be added without touching the list")
	curateCmd.Flags().BoolP("skip-existing", "s", false, "Skip items already in the list")
	curateCmd.Flags().Int("min-confidence", -1, "Override the minimum confidence score")
	curateCmd.Flags().StringP("categories-file", "f", "", "Alternate categories file (relative to configdir)")
	curateCmd.Flags().StringP("list", "L", "", "Target list name from lists.yaml")
	curateCmd.Flags().Duration("rate-limit", time.Second, "Pause between list API calls")
	curateCmd.Flags().String("dbpath", "", "Path to SQLite DB recording curated items (empty = db.path from config)")
}
