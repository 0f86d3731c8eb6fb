package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemo-ai/mnemo/internal/memory"
)

var addRole string

var addCmd = &cobra.Command{
	Use:   "add [message]",
	Short: "Record a message in every memory layer",
	Long: `Record one conversation turn. The message lands in the ephemeral
window, the durable store, and (when available) the semantic index.

Examples:
  mnemo add "I live in Moscow"
  mnemo add --role assistant "Noted, you live in Moscow"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addRole, "role", "r", memory.RoleUser, "message role (user, assistant, system)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	content := strings.Join(args, " ")
	out := coord.AddMessage(cmd.Context(), addRole, content, nil)

	if out.DurableErr != nil {
		return fmt.Errorf("failed to save message: %w", out.DurableErr)
	}
	fmt.Printf("Saved message %d (session %s)\n", out.DurableID, coord.CurrentSessionID())

	switch {
	case out.SemanticSkipped != "":
		fmt.Printf("  Semantic index skipped: %s\n", out.SemanticSkipped)
	case out.SemanticErr != nil:
		fmt.Printf("  Semantic index failed: %v\n", out.SemanticErr)
	default:
		fmt.Printf("  Indexed as %s\n", out.SemanticID)
	}
	return nil
}
