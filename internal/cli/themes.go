package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var themesClusters int

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Cluster indexed memories into conversation themes",
	Long: `Group every semantically indexed message into themes and show each
theme's most representative message. Needs at least as many indexed
messages as requested clusters.

Examples:
  mnemo themes
  mnemo themes --clusters 3`,
	RunE: runThemes,
}

func init() {
	themesCmd.Flags().IntVarP(&themesClusters, "clusters", "k", 5, "number of themes")
}

func runThemes(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	themes := coord.Themes(cmd.Context(), themesClusters)
	if len(themes) == 0 {
		fmt.Println("Not enough indexed messages to form themes.")
		return nil
	}

	fmt.Printf("%d themes:\n\n", len(themes))
	for _, th := range themes {
		fmt.Printf("Theme %d (%d messages)\n", th.ID+1, th.DocumentCount)
		fmt.Printf("  Representative: %s\n", th.Representative)
		for _, s := range th.Samples {
			fmt.Printf("  - %s\n", s)
		}
		fmt.Println()
	}
	return nil
}
