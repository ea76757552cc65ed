package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kisansathi/assistant/internal/config"
	"github.com/kisansathi/assistant/internal/store"
)

// openStore opens the local store from the loaded configuration.
func openStore() (*store.SQLiteKV, *store.StateStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	kv, err := store.OpenSQLite(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return kv, store.NewStateStore(kv, nil), nil
}

func closeStore(kv *store.SQLiteKV) {
	if err := kv.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}
}

// NewStateCmd creates the state command
func NewStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show onboarding and profile state",
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, state, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(kv)

			if lang, ok := state.Language(); ok {
				fmt.Printf("Language:             %s (%s)\n", lang.Name, lang.Code)
			} else {
				fmt.Println("Language:             not selected")
			}
			if info, ok := state.UserInfo(); ok {
				fmt.Printf("Profile:              name=%q location=%q\n", info.Name, info.Location)
			} else {
				fmt.Println("Profile:              not set")
			}
			fmt.Printf("Permissions checked:  %v\n", state.PermissionsChecked())
			fmt.Printf("Onboarding complete:  %v\n", state.OnboardingComplete())
			fmt.Printf("User tasks:           %d\n", len(state.Tasks()))
			fmt.Printf("History items:        %d\n", len(state.History()))
			if date := state.LastReminder(); date != "" {
				fmt.Printf("Last reminder:        %s\n", date)
			}
			return nil
		},
	}
}
