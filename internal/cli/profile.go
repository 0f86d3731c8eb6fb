package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and update the user profile",
}

var profileGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show the profile, or one key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileGet,
}

var profileSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a profile key",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileSet,
}

func init() {
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func runProfileGet(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	profile := coord.Profile()

	if len(args) == 1 {
		value, ok := profile[args[0]]
		if !ok {
			return fmt.Errorf("no profile key %q", args[0])
		}
		fmt.Printf("%v\n", value)
		return nil
	}

	if len(profile) == 0 {
		fmt.Println("Profile is empty.")
		return nil
	}

	keys := make([]string, 0, len(profile))
	for k := range profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, profile[k])
	}
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	coord, logger, err := openMemory()
	if err != nil {
		return err
	}
	defer coord.Close()
	defer logger.Close()

	if !coord.UpdateProfile(args[0], args[1]) {
		return fmt.Errorf("failed to update profile key %q", args[0])
	}
	fmt.Printf("Set %s\n", args[0])
	return nil
}
