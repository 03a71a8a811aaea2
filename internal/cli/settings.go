package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zeuyel/MathImage/internal/config"
	"github.com/Zeuyel/MathImage/internal/typ"
)

// ConfigCommand manages the persisted settings from the terminal
func ConfigCommand(store *config.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit application settings",
	}

	cmd.AddCommand(configShowCommand(store))
	cmd.AddCommand(configSetCommand(store))
	cmd.AddCommand(configPathCommand(store))

	return cmd
}

func configShowCommand(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := store.Snapshot()

			fmt.Printf("API Base URL:  %s\n", settings.APIBaseURL)
			fmt.Printf("API Key:       %s\n", maskKey(settings.APIKey))
			fmt.Printf("Model:         %s\n", orUnset(settings.Model))
			fmt.Printf("Hotkey:        %s\n", settings.Hotkey)
			fmt.Printf("Sound:         %v\n", settings.SoundEnabled)
			if settings.ProxyURL != "" {
				fmt.Printf("Proxy:         %s\n", settings.ProxyURL)
			}
			if settings.Timeout > 0 {
				fmt.Printf("Timeout:       %ds\n", settings.Timeout)
			}
			return nil
		},
	}
}

func configSetCommand(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a settings field",
		Long: `Set a single settings field and persist it.

Keys: api_base_url, api_key, model, prompt, hotkey, sound_enabled, proxy_url, timeout`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.ToLower(args[0]), args[1]

			var applyErr error
			err := store.Update(func(settings *typ.Settings) {
				switch key {
				case "api_base_url":
					settings.APIBaseURL = strings.TrimSpace(value)
				case "api_key":
					settings.APIKey = strings.TrimSpace(value)
				case "model":
					settings.Model = value
				case "prompt":
					settings.Prompt = value
				case "hotkey":
					settings.Hotkey = value
				case "sound_enabled":
					enabled, err := strconv.ParseBool(value)
					if err != nil {
						applyErr = fmt.Errorf("sound_enabled must be true or false")
						return
					}
					settings.SoundEnabled = enabled
				case "proxy_url":
					settings.ProxyURL = strings.TrimSpace(value)
				case "timeout":
					seconds, err := strconv.ParseInt(value, 10, 64)
					if err != nil || seconds < 0 {
						applyErr = fmt.Errorf("timeout must be a non-negative integer (seconds)")
						return
					}
					settings.Timeout = seconds
				default:
					applyErr = fmt.Errorf("unknown settings key %q", key)
				}
			})
			if applyErr != nil {
				return applyErr
			}
			if err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			fmt.Printf("Updated %s\n", key)
			return nil
		},
	}
}

func configPathCommand(store *config.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(store.ConfigFile())
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 6) + key[len(key)-4:]
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
