package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all local state",
		Long:  "Remove language, profile, onboarding markers, tasks, and history; the next start runs onboarding again",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("resetting wipes all local state, re-run with --confirm")
			}

			kv, state, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(kv)

			if err := state.Reset(); err != nil {
				return fmt.Errorf("failed to reset state: %w", err)
			}
			fmt.Println("✓ Local state reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the reset")

	return cmd
}
