package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/internal/config"
	"github.com/mirawen/course-staff-tools/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	ctx    context.Context
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Course staff tools - section/OH matching, room partitions, catalog fetching",
		Long: `Utilities for course administration: match TAs to discussion sections
and office hour slots, partition exam rooms alphabetically, fetch associated
sections from the course catalog, and convert colored preference spreadsheets.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	// Add all commands
	rootCmd.AddCommand(matchCmd())
	rootCmd.AddCommand(matchFlowCmd())
	rootCmd.AddCommand(fetchSectionsCmd())
	rootCmd.AddCommand(partitionRoomsCmd())
	rootCmd.AddCommand(convertSheetCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger and loads configuration
func initApp(commandName string) error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(commandName)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("command", commandName))

	// Load configuration (defaults when no config file exists)
	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	return nil
}
