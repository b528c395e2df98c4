package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "glimpse",
	Short: "Search excerpts and highlighting for Markdown content",
	Long: "Glimpse turns Markdown posts into plain text, builds a JSON search index, " +
		"and produces highlighted titles and excerpts for search results.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
}

// logger is replaced before every command runs.
var logger = slog.Default()

func init() {
	rootCmd.PersistentFlags().String("config", "glimpse.yaml", "path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the --config file and applies the flags of cmd that were
// set explicitly. flagKeys maps flag names to config override keys.
func loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	overrides := make(map[string]any)
	for flagName, key := range flagKeys {
		f := cmd.Flags().Lookup(flagName)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			overrides[key], _ = cmd.Flags().GetBool(flagName)
		case "int":
			overrides[key], _ = cmd.Flags().GetInt(flagName)
		default:
			overrides[key] = f.Value.String()
		}
	}
	cfg = cfg.WithOverrides(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readInput returns the contents of the file named by args[0], or stdin
// when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}
