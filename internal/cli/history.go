package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyDays    int
	historySession string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show durable conversation history",
	Long: `Display conversation history from the durable store, newest first.

Examples:
  mnemo history                    # Current session
  mnemo history --days 7           # Last week, current session
  mnemo history --session <id>     # A specific session`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 0, "only messages from the last N days")
	historyCmd.Flags().StringVarP(&historySession, "session", "s", "", "session id (default: current)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum messages")
}

func runHistory(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	msgs := coord.History(historyDays, historySession, historyLimit)
	if len(msgs) == 0 {
		fmt.Println("No conversation history found.")
		return nil
	}

	fmt.Printf("%d messages:\n\n", len(msgs))
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format(time.RFC3339), m.Role, m.Content)
	}
	return nil
}
