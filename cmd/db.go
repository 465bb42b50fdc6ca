package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vrlkz/arcurate/pkg/storage"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the local curated-items database",
}

// dbStatsCmd represents the stats command
var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-category statistics about curated items",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "CATEGORY\tITEMS\tAVG SCORE\t")
		total := 0
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%.1f\t\n", s.Category, s.ItemCount, s.AvgScore)
			total += s.ItemCount
		}
		fmt.Fprintln(w, " \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t\t\n", total)
		w.Flush()
		return nil
	},
}

// dbListCmd represents the list command
var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List curated items recorded in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		mediatype, _ := cmd.Flags().GetString("mediatype")
		minScore, _ := cmd.Flags().GetInt("min-score")
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := db.ListCurated(cmd.Context(), storage.ListOptions{
			Category:  category,
			Mediatype: mediatype,
			MinScore:  minScore,
			Limit:     limit,
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No matching items in the database.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SCORE\tIDENTIFIER\tTYPE\tCATEGORY\tADDED\t")
		for _, r := range rows {
			added := ""
			if !r.AddedAt.IsZero() {
				added = r.AddedAt.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", r.Score, r.Identifier, r.Mediatype, r.Category, added)
		}
		w.Flush()
		return nil
	},
}

func openDB(cmd *cobra.Command) (*storage.DB, error) {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = viper.GetString("db.path")
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", dbPath)
	}
	return storage.Open(dbPath)
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbListCmd)
	dbCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: db.path from config)")
	dbListCmd.Flags().StringP("category", "c", "", "Filter by category")
	dbListCmd.Flags().String("mediatype", "", "Filter by mediatype")
	dbListCmd.Flags().Int("min-score", 0, "Only show items at or above this score")
	dbListCmd.Flags().Int("limit", 50, "Maximum rows to show")
}
