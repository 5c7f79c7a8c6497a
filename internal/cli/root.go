package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/server"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/extensions"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/paths"
)

type ctxKey string

const appCtxKey ctxKey = "app"

// App carries the components shared by all subcommands
type App struct {
	Config     *config.Config
	Logger     *logging.Logger
	Operator   *filesystem.Operator
	Extensions *extensions.Manager
}

// NewRootCommand builds the aiopctl command tree
func NewRootCommand() *cobra.Command {
	var dataDir string
	var logLevel string
	var validate bool

	rootCmd := &cobra.Command{
		Use:           "aiopctl",
		Short:         "aiopctl drives the AIOP file and extension operations from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.Storage.DataDir = dataDir
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if cmd.Flags().Changed("validate") {
				cfg.Extensions.Validate = validate
			}

			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appCtxKey, app))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Application data directory (default is the platform local-data folder)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level written to stderr")
	rootCmd.PersistentFlags().BoolVar(&validate, "validate", false, "Require a manifest and an html entry page when installing")

	rootCmd.AddCommand(listCommand())
	rootCmd.AddCommand(catCommand())
	rootCmd.AddCommand(writeCommand())
	rootCmd.AddCommand(removeCommand())
	rootCmd.AddCommand(copyCommand())
	rootCmd.AddCommand(ExtensionsCommand())
	rootCmd.AddCommand(serveCommand())

	return rootCmd
}

func newApp(cfg *config.Config) (*App, error) {
	logger := logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development, "stderr")

	layout, err := paths.NewLayout(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	ops := filesystem.New(server.OperatorOptions(cfg), logger.Component("filesystem"))
	manager := extensions.NewManager(ops, layout, server.ExtensionOptions(cfg), logger.Component("extensions"))

	return &App{
		Config:     cfg,
		Logger:     logger,
		Operator:   ops,
		Extensions: manager,
	}, nil
}

// GetApp returns the components prepared by the root command
func GetApp(cmd *cobra.Command) *App {
	if v := cmd.Context().Value(appCtxKey); v != nil {
		if app, ok := v.(*App); ok {
			return app
		}
	}
	return nil
}
