// Package cli defines the cobra command tree for the comment probe.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-comment-probe/internal/app"
	"github.com/samvad-hq/samvad-comment-probe/internal/config"
	"github.com/samvad-hq/samvad-comment-probe/internal/logger"
)

var (
	flagLogLevel string
	flagBaseURL  string
	flagEnvFile  string
)

// NewRootCmd creates the root cobra command with global flags.
// Running it without a subcommand behaves like `run`.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "probe",
		Short:         "Exercise the placeholder comments API",
		Long:          "Fetch a comment and create a comment against a JSONPlaceholder-style API, logging each parsed JSON response.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runAll,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug|info|warn|error); overrides LOG_LEVEL")
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL; overrides API_BASE_URL")
	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", config.DefaultEnvFile, "dotenv file read before the environment")

	root.AddCommand(
		newRunCmd(),
		newGetCmd(),
		newPostCmd(),
		newHistoryCmd(),
	)

	return root
}

// loadConfig reads config and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadFrom(flagEnvFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("base-url") {
		cfg.APIBaseURL = flagBaseURL
	}
	return cfg, nil
}

// withProbe builds the runtime, hands it to fn, and tears it down afterwards.
func withProbe(cmd *cobra.Command, mutate func(*config.Config) error, fn func(context.Context, *app.Probe, *config.Config) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if mutate != nil {
		if err := mutate(cfg); err != nil {
			return err
		}
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("probe starting", "config", cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := app.New(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize probe", "error", err.Error())
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			log.ErrorObj("probe close failed", "error", cerr.Error())
		}
	}()

	return fn(ctx, p, cfg)
}
