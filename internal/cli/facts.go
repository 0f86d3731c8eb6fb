package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	factCategory   string
	factSource     string
	factConfidence float64
	factsMinConf   float64
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Manage extracted user facts",
}

var factsSaveCmd = &cobra.Command{
	Use:   "save [fact]",
	Short: "Save a fact about the user",
	Long: `Save one fact with a category and a confidence in [0, 1].

Examples:
  mnemo facts save --category diet --confidence 0.9 "vegetarian"
  mnemo facts save --category location --source conversation "lives in Moscow"`,
	Args: cobra.ExactArgs(1),
	RunE: runFactsSave,
}

var factsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored facts",
	RunE:  runFactsList,
}

func init() {
	factsSaveCmd.Flags().StringVarP(&factCategory, "category", "c", "general", "fact category")
	factsSaveCmd.Flags().StringVar(&factSource, "source", "", "where the fact came from")
	factsSaveCmd.Flags().Float64Var(&factConfidence, "confidence", 0.8, "confidence in [0, 1]")

	factsListCmd.Flags().StringVarP(&factCategory, "category", "c", "", "filter by category")
	factsListCmd.Flags().Float64Var(&factsMinConf, "min-confidence", 0.7, "minimum confidence")

	factsCmd.AddCommand(factsSaveCmd)
	factsCmd.AddCommand(factsListCmd)
}

func runFactsSave(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	if !coord.SaveFact(factCategory, args[0], factSource, factConfidence) {
		return fmt.Errorf("failed to save fact (is confidence within [0, 1]?)")
	}
	fmt.Printf("Saved fact in %q with confidence %.2f\n", factCategory, factConfidence)
	return nil
}

func runFactsList(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	facts := coord.Facts(factCategory, factsMinConf)
	if len(facts) == 0 {
		fmt.Println("No facts found.")
		return nil
	}

	fmt.Printf("%d facts:\n\n", len(facts))
	for _, f := range facts {
		fmt.Printf("  [%s] %s (confidence %.2f)\n", f.Category, f.Fact, f.Confidence)
		if f.Source != "" {
			fmt.Printf("      Source: %s\n", f.Source)
		}
	}
	return nil
}
