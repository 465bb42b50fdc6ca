package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vrlkz/arcurate/internal/utils"
	"github.com/vrlkz/arcurate/pkg/curation"
	"github.com/vrlkz/arcurate/pkg/ialist"
)

// loadCurationConfigs reads categories.yaml (required) and filters.yaml
// (optional, defaults apply) from the config directory. An alternate
// categories file may be given relative to the config dir or absolute.
func loadCurationConfigs(cmd *cobra.Command, categoriesFile string) (curation.Categories, *curation.Config, error) {
	configDir, _ := cmd.Flags().GetString("configdir")

	categoriesPath := filepath.Join(configDir, "categories.yaml")
	if categoriesFile != "" {
		if filepath.IsAbs(categoriesFile) {
			categoriesPath = categoriesFile
		} else {
			categoriesPath = filepath.Join(configDir, categoriesFile)
		}
	}

	categories, err := curation.LoadCategories(categoriesPath)
	if err != nil {
		return nil, nil, err
	}

	filtersPath := filepath.Join(configDir, "filters.yaml")
	if _, err := os.Stat(filtersPath); os.IsNotExist(err) {
		utils.Log.Debugf("No filters config at %s, using defaults", filtersPath)
		return categories, curation.DefaultConfig(), nil
	}

	cfg, err := curation.LoadConfig(filtersPath)
	if err != nil {
		return nil, nil, err
	}
	return categories, cfg, nil
}

// selectCategories narrows the configured categories to one when requested.
func selectCategories(categories curation.Categories, name string) (curation.Categories, error) {
	if name == "" {
		return categories, nil
	}
	cat, ok := categories[name]
	if !ok {
		return nil, fmt.Errorf("unknown category %q (available: %v)", name, categories.Names())
	}
	return curation.Categories{name: cat}, nil
}

// listDef is one entry of lists.yaml.
type listDef struct {
	Name        string `yaml:"name"`
	Parent      string `yaml:"parent"`
	Description string `yaml:"description"`
}

type listsFile struct {
	Lists []listDef `yaml:"lists"`
}

// loadLists reads lists.yaml from the config directory.
func loadLists(cmd *cobra.Command) ([]listDef, error) {
	configDir, _ := cmd.Flags().GetString("configdir")
	raw, err := os.ReadFile(filepath.Join(configDir, "lists.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read lists config: %w", err)
	}
	var lf listsFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("parse lists config: %w", err)
	}
	return lf.Lists, nil
}

// resolveList picks the target list by name, or the only configured one.
func resolveList(lists []listDef, name string) (listDef, error) {
	if name == "" {
		if len(lists) == 1 {
			return lists[0], nil
		}
		names := make([]string, 0, len(lists))
		for _, l := range lists {
			names = append(names, l.Name)
		}
		sort.Strings(names)
		return listDef{}, fmt.Errorf("multiple lists configured, pick one with --list (available: %v)", names)
	}
	for _, l := range lists {
		if l.Name == name {
			return l, nil
		}
	}
	return listDef{}, fmt.Errorf("list %q not found in lists.yaml", name)
}

// listConfigFor combines a list definition with the stored credentials.
func listConfigFor(def listDef) (ialist.ListConfig, error) {
	cfg := ialist.ListConfig{
		Parent:      def.Parent,
		Name:        def.Name,
		Description: def.Description,
		AccessKey:   viper.GetString("ia.accesskey"),
		SecretKey:   viper.GetString("ia.secretkey"),
	}
	if err := cfg.Validate(); err != nil {
		return ialist.ListConfig{}, err
	}
	return cfg, nil
}
