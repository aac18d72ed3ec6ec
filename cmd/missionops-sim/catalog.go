package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"missionops-sim/internal/config"
	"missionops-sim/internal/scenario"
	"missionops-sim/internal/theme"
)

var (
	catalogTheme    string
	catalogFile     string
	catalogExtended bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate scenario catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scenarios of a theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cat, err := catalogContent()
		if err != nil {
			return err
		}
		fmt.Println(catalogTable(cat))
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario catalog against a theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		th, cat, err := catalogContent()
		if err != nil {
			return err
		}
		fmt.Printf("catalog ok for %s: %d base, %d extended, %d escalated\n",
			th.ID, len(cat.Base), len(cat.Extended), len(cat.Escalated))
		return nil
	},
}

var catalogPlaylistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Preview the scenarios briefed for one playthrough",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cat, err := catalogContent()
		if err != nil {
			return err
		}
		settings, err := config.Settings(cfg.Difficulty)
		if err != nil {
			return err
		}
		sel := scenario.NewSelector(cat, scenario.NewRand(seedFor(cfg)))
		unlock := catalogExtended || cfg.PlayCount > 0
		fmt.Printf("%s briefing, %d scenarios:\n", settings.Name, settings.ScenarioCount)
		for i, d := range sel.Playlist(settings.ScenarioCount, unlock) {
			fmt.Printf("%d. %s (%s, %s)\n", i+1, d.Title, d.Urgency, strings.Join(d.Phases, "/"))
		}
		return nil
	},
}

// catalogContent loads the catalog selected by the flags, falling back to the
// run configuration.
func catalogContent() (theme.Theme, *scenario.Catalog, error) {
	c := *cfg
	if catalogTheme != "" {
		c.Theme = catalogTheme
	}
	if catalogFile != "" {
		c.CatalogFile = catalogFile
	}
	return loadContent(&c)
}

func catalogTable(cat *scenario.Catalog) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TABLE", "TITLE", "URGENCY", "PHASES", "PARENT")
	add := func(name string, ds []scenario.Definition) {
		for _, d := range ds {
			t.Row(d.ID, name, d.Title, string(d.Urgency), strings.Join(d.Phases, ","), d.Parent)
		}
	}
	add("base", cat.Base)
	add("extended", cat.Extended)
	add("escalated", cat.Escalated)
	return t.String()
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogTheme, "theme", "", "Vehicle theme: submarine or aircraft")
	catalogCmd.PersistentFlags().StringVar(&catalogFile, "file", "", "Catalog YAML file (defaults to the built-in catalog)")
	catalogPlaylistCmd.Flags().BoolVar(&catalogExtended, "extended", false, "Include the extended catalog unlocked after the first play")
	catalogCmd.AddCommand(catalogListCmd, catalogValidateCmd, catalogPlaylistCmd)
}
