package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage conversation sessions",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current session id",
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, logger, err := openMemory()
		if err != nil {
			return err
		}
		defer coord.Close()
		defer logger.Close()

		fmt.Println(coord.CurrentSessionID())
		return nil
	},
}

var sessionPurgeCmd = &cobra.Command{
	Use:   "purge [session-id]",
	Short: "Remove a session's vectors from the semantic index",
	Long: `Remove every semantically indexed message of one session. The
durable copies in the SQLite store are kept and stay queryable via
'mnemo history --session'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionPurge,
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionPurgeCmd)
}

func runSessionPurge(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	removed := coord.PurgeSessionVectors(cmd.Context(), args[0])
	fmt.Printf("Removed %d indexed messages for session %s\n", removed, args[0])
	fmt.Println("Durable history for the session is kept.")
	return nil
}
