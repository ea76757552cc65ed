package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kisansathi/assistant/internal/services/history"
)

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage interaction history",
	}
	cmd.AddCommand(newHistoryExportCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full history as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, state, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(kv)

			doc, err := history.NewLog(state, nil).Export()
			if err != nil {
				return fmt.Errorf("failed to export history: %w", err)
			}

			if output == "" {
				fmt.Println(string(doc))
				return nil
			}
			if err := os.WriteFile(output, doc, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("✓ History exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write instead of stdout")

	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history items",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("clearing history is irreversible, re-run with --confirm")
			}

			kv, state, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(kv)

			if err := history.NewLog(state, nil).Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Println("✓ History cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the deletion")

	return cmd
}
