package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kisansathi/assistant/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "kisan-sathi-configure",
		Short: "Operator tool for the Kisan Sathi assistant",
		Long:  "CLI tool for inspecting local state, testing credentials, and managing history",
	}

	rootCmd.AddCommand(commands.NewStateCmd())
	rootCmd.AddCommand(commands.NewTestCmd())
	rootCmd.AddCommand(commands.NewHistoryCmd())
	rootCmd.AddCommand(commands.NewResetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
