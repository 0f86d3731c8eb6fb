package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show memory statistics for every layer",
	Long: `Display per-layer statistics: window occupancy, durable store row
counts and size, and semantic index state.

Examples:
  mnemo stats
  mnemo stats --json`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	stats := coord.Stats()

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Session: %s\n\n", stats.SessionID)

	fmt.Println("Short-term window:")
	fmt.Printf("  Messages: %d / %d (%.0f%%)\n",
		stats.Window.CurrentMessages, stats.Window.MaxMessages, stats.Window.UsagePercent)

	fmt.Println("\nLong-term store:")
	fmt.Printf("  Conversations: %d\n", stats.Durable.Conversations)
	fmt.Printf("  Facts:         %d\n", stats.Durable.Facts)
	fmt.Printf("  Statistics:    %d\n", stats.Durable.Statistics)
	fmt.Printf("  Size:          %.2f MB\n", stats.Durable.SizeMB)

	fmt.Println("\nSemantic index:")
	if !strings.HasPrefix(stats.SemanticStatus, "ok") {
		fmt.Printf("  %s\n", stats.SemanticStatus)
		return nil
	}
	fmt.Printf("  Documents:  %d\n", stats.Semantic.Documents)
	fmt.Printf("  Dimensions: %d\n", stats.Semantic.Dimensions)
	fmt.Printf("  Collection: %s\n", stats.Semantic.Collection)
	fmt.Printf("  Model:      %s\n", stats.Semantic.Model)
	fmt.Printf("  Size:       %.2f MB\n", stats.Semantic.SizeMB)
	return nil
}
