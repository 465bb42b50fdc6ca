package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrlkz/arcurate/pkg/ialist"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage archive.org credentials",
}

// authCheckCmd represents the check command
var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify archive.org credentials and list configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		listName, _ := cmd.Flags().GetString("list")

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
			return fmt.Errorf("%w\n\nSet ia.accesskey and ia.secretkey in ~/.arcurate.yaml.\nGet your S3 keys from https://archive.org/account/s3.php", err)
		}

		fmt.Println("Credentials loaded successfully.")
		fmt.Printf("  List parent: %s\n", listCfg.Parent)
		fmt.Printf("  List name:   %s\n", listCfg.Name)
		fmt.Printf("  Access key:  %.8s...\n", listCfg.AccessKey)

		fmt.Println("\nTesting API connection...")
		existing, err := ialist.NewClient().ExistingItems(cmd.Context(), listCfg)
		if err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}
		fmt.Printf("Success! Found %d items in your list.\n", len(existing))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authCheckCmd)
	authCheckCmd.Flags().StringP("list", "L", "", "Target list name from lists.yaml")
}
