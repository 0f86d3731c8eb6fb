package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/internal/memory"
)

var (
	searchMethod string
	searchLimit  int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored memories",
	Long: `Search memories across the enabled layers and print the merged,
similarity-ranked results.

Examples:
  mnemo search "where do I live"
  mnemo search --method text "Moscow"
  mnemo search --method semantic --limit 3 "food preferences"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchMethod, "method", "m", "both", "search method (semantic, text, both)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	method := memory.SearchMethod(searchMethod)
	switch method {
	case memory.SearchSemantic, memory.SearchText, memory.SearchBoth:
	default:
		return fmt.Errorf("unknown search method %q (want semantic, text, or both)", searchMethod)
	}

	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	query := strings.Join(args, " ")
	results := coord.Search(cmd.Context(), query, method, searchLimit)

	if len(results) == 0 {
		fmt.Println("No memories found.")
		return nil
	}

	fmt.Printf("Found %d memories:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("%d. [%.2f %s] %s\n", i+1, r.Similarity, r.SearchMethod, r.Content)
		if role, ok := r.Metadata["role"]; ok {
			fmt.Printf("   Role: %v\n", role)
		}
		if ts, ok := r.Metadata["timestamp"]; ok {
			fmt.Printf("   Time: %v\n", ts)
		}
	}
	return nil
}
