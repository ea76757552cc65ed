package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kisansathi/assistant/internal/config"
	"github.com/kisansathi/assistant/internal/services/ai"
	"github.com/kisansathi/assistant/internal/services/weather"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test AI and weather credentials",
		Long:  "Test the configured AI provider and weather API keys with a live request",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if location == "" {
				location = cfg.DefaultLocation
			}

			ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
			defer cancel()

			fmt.Printf("Testing AI provider: %s\n", cfg.AIProvider)
			if err := testAI(ctx, cfg); err != nil {
				fmt.Printf("✗ AI provider test failed: %v\n", err)
			} else {
				fmt.Println("✓ AI provider responded")
			}

			fmt.Println("\nTesting weather API")
			if err := testWeather(ctx, cfg, location); err != nil {
				fmt.Printf("✗ Weather test failed: %v\n", err)
			} else {
				fmt.Printf("✓ Weather data available for %s\n", location)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Location for the weather check (default: DEFAULT_LOCATION)")

	return cmd
}

func testAI(ctx context.Context, cfg *config.Config) error {
	registry := ai.NewProviderRegistry()
	ai.RegisterGemini(registry, nil, false)
	ai.RegisterOpenAI(registry, nil, false)

	apiKey := cfg.GeminiKey
	if cfg.AIProvider == "openai" {
		apiKey = cfg.OpenAIKey
	}
	provider, err := registry.GetProvider(cfg.AIProvider, map[string]string{
		"api_key":  apiKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	})
	if err != nil {
		return err
	}

	_, err = provider.AskQuestion(ctx, "Reply with the single word OK.", "en", "")
	return err
}

func testWeather(ctx context.Context, cfg *config.Config, location string) error {
	client, err := weather.NewClient(cfg.WeatherKey, cfg.WeatherBaseURL, nil)
	if err != nil {
		return err
	}
	_, err = client.Fetch(ctx, location)
	return err
}
