package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zeuyel/MathImage/internal/client"
	"github.com/Zeuyel/MathImage/internal/config"
)

// TestCommand runs a one-shot connection test against the configured endpoint
func TestCommand(store *config.Store) *cobra.Command {
	var (
		baseURL string
		apiKey  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connectivity to the configured API endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := store.Endpoint()
			if baseURL != "" {
				endpoint.BaseURL = baseURL
			}
			if apiKey != "" {
				endpoint.APIKey = apiKey
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			tester := client.NewConnectionTester()
			result := tester.TestConnection(ctx, endpoint)

			if result.Success {
				fmt.Printf("OK: %s (HTTP %d, %dms)\n", result.Message, result.StatusCode, result.LatencyMs)
				return nil
			}
			if result.StatusCode > 0 {
				return fmt.Errorf("connection failed [%s, HTTP %d]: %s", result.ErrorKind, result.StatusCode, result.Message)
			}
			return fmt.Errorf("connection failed [%s]: %s", result.ErrorKind, result.Message)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "override the stored API base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "override the stored API key")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "overall test timeout")

	return cmd
}

// ModelsCommand lists the models the endpoint advertises
func ModelsCommand(store *config.Store) *cobra.Command {
	var (
		baseURL string
		apiKey  string
		noKey   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models available at the configured API endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := store.Endpoint()
			if baseURL != "" {
				endpoint.BaseURL = baseURL
			}
			if apiKey != "" {
				endpoint.APIKey = apiKey
			}
			endpoint.NoKeyRequired = noKey

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			lister := client.NewOpenAIModelLister()
			models, err := lister.ListModels(ctx, endpoint)
			if err != nil {
				return fmt.Errorf("failed to list models: %w", err)
			}

			if len(models) == 0 {
				fmt.Println("No models available")
				return nil
			}
			for _, model := range models {
				fmt.Println(model.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "override the stored API base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "override the stored API key")
	cmd.Flags().BoolVar(&noKey, "no-key", false, "endpoint accepts keyless requests (e.g. local Ollama)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall fetch timeout")

	return cmd
}
