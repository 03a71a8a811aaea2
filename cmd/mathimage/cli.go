package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Zeuyel/MathImage/internal/cli"
	"github.com/Zeuyel/MathImage/internal/config"
	"github.com/Zeuyel/MathImage/internal/obs"
)

// Build information, set by the compiler via -ldflags
var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mathimage",
	Short: "MathImage - math screenshot to markdown backend",
	Long: `MathImage backend manages the application settings, tests connectivity to
an OpenAI-compatible API endpoint and lists the models it advertises. The
desktop shell talks to it over a local HTTP API.`,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("config-dir", "", "configuration directory (default: ~/.mathimage)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("MathImage backend\n")
			fmt.Printf("Version:    %s\n", version)
			fmt.Printf("Git Commit: %s\n", gitCommit)
			fmt.Printf("Build Time: %s\n", buildTime)
			fmt.Printf("Go Version: %s\n", runtime.Version())
			fmt.Printf("Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
	rootCmd.AddCommand(versionCmd)
}

// earlyFlags parses the global flags before command construction so the
// settings store can live in a custom directory.
func earlyFlags(args []string) (configDir string, verbose bool) {
	flags := pflag.NewFlagSet("early", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Usage = func() {}
	flags.BoolVarP(&verbose, "verbose", "v", false, "")
	flags.StringVar(&configDir, "config-dir", "", "")
	flags.Parse(args)
	return configDir, verbose
}

func expandConfigDir(dir string) (string, error) {
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Abs(dir)
}

func main() {
	// Optional .env for local development, missing file is fine
	godotenv.Load()

	configDir, verbose := earlyFlags(os.Args[1:])

	var opts []config.StoreOption
	if configDir != "" {
		expanded, err := expandConfigDir(configDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error expanding config directory: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, config.WithConfigDir(expanded))
	}

	store, err := config.NewStore(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing settings: %v\n", err)
		os.Exit(1)
	}

	obs.Setup(store.ConfigDir(), verbose)

	rootCmd.AddCommand(cli.ServeCommand(store, version))
	rootCmd.AddCommand(cli.ConfigCommand(store))
	rootCmd.AddCommand(cli.TestCommand(store))
	rootCmd.AddCommand(cli.ModelsCommand(store))
	rootCmd.AddCommand(cli.HistoryCommand(store))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
