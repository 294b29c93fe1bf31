package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shahar-caura/irisform/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

var logLevel = new(slog.LevelVar)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("iris failed", "error", err)
		os.Exit(1)
	}
}

// app carries what the root command resolves before any subcommand runs.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "iris",
		Short:         "Classify iris flowers against a prediction endpoint",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				logLevel.Set(slog.LevelDebug)
			}
			return a.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "path to config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newFormCmd(a, logger),
		newPredictCmd(a, logger),
		newServeCmd(a, logger),
		newCompletionCmd(),
	)
	return root
}

// loadConfig reads env files then the config. A missing default config file
// is not an error; a missing file named with --config is.
func (a *app) loadConfig(cmd *cobra.Command) error {
	config.LoadEnvFiles()

	var err error
	if cmd.Flags().Changed("config") {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadOrDefault(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return nil
}
