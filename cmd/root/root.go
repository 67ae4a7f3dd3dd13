// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/pain001/internal/config"
	"fjacquet/pain001/internal/container"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/xmlutils"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Config    string
	LogLevel  string
	LogFormat string
}

var (
	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config
	// AppContainer holds the wired dependencies of the running command.
	AppContainer *container.Container

	// SharedFlags are bound to the persistent flags of Cmd.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "pain001",
		Short: "A CLI tool to generate ISO 20022 pain.001.001.09 credit transfer initiations.",
		Long: `pain001 builds ISO 20022 pain.001.001.09 Customer Credit Transfer Initiation
messages from YAML or CSV payment batches, validates them against the schema rules
and resolves missing creditor BICs from their IBAN.`,
		SilenceUsage:      true,
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Config, "config", "c", "", "Configuration file (default: config.yaml in $HOME/.pain001, .pain001 or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
}

// initialize loads .env and the configuration, applies the logging flags and
// builds the container shared by the subcommands.
func initialize(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(nil); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(SharedFlags.Config)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if err := logging.ValidateSettings(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	logger := logging.NewLogrusAdapterWithOutput(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	c, err := container.NewContainer(cfg, container.WithLogger(logger))
	if err != nil {
		return err
	}
	xmlutils.SetLogger(logger)

	AppConfig = cfg
	AppContainer = c
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the container logger, or a no-op logger before
// initialization.
func GetLogger() logging.Logger {
	if AppContainer == nil {
		return logging.NewNopLogger()
	}
	return AppContainer.GetLogger()
}
