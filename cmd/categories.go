package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List configured categories and their terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		categoriesFile, _ := cmd.Flags().GetString("categories-file")
		verbose, _ := cmd.Flags().GetBool("terms")

		categories, _, err := loadCurationConfigs(cmd, categoriesFile)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tTERMS\tMEDIATYPES\t")
		for _, name := range categories.Names() {
			cat := categories[name]
			mediatypes := strings.Join(cat.Mediatypes, ",")
			if mediatypes == "" {
				mediatypes = "texts"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t\n", name, len(cat.Terms), mediatypes)
		}
		w.Flush()

		if !verbose {
			return nil
		}
		for _, name := range categories.Names() {
			fmt.Printf("\n%s:\n", name)
			for _, term := range categories[name].Terms {
				extras := ""
				if term.SearchTerm != "" {
					extras = fmt.Sprintf(" (search: %q)", term.SearchTerm)
				}
				if len(term.Mediatypes) > 0 {
					extras += fmt.Sprintf(" (types: %v)", term.Mediatypes)
				}
				fmt.Printf("  - %s%s\n", term.Name, extras)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().StringP("categories-file", "f", "", "Alternate categories file (relative to configdir)")
	categoriesCmd.Flags().BoolP("terms", "t", false, "Also list every term per category")
}
