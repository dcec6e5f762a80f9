package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	appMigrations "github.com/yigit/bazaar/internal/app/migrations"
	"github.com/yigit/bazaar/internal/app/repositories"
	"github.com/yigit/bazaar/internal/bootstrap"
	"github.com/yigit/bazaar/internal/config"
	"github.com/yigit/bazaar/internal/db"
	"github.com/yigit/bazaar/internal/pkg/logger"
)

var (
	// Global flags
	configPath string
	dbURL      string
	verbose    bool

	// Migrate flags
	steps int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bazaar-migrate",
	Short: "Schema and seed management for the Bazaar API",
	Long: `Manage the Bazaar database schema.

Subcommands:
  up       - Apply pending migrations
  down     - Revert migrations
  version  - Show the current schema version
  force    - Set the schema version without running migrations
  seed     - Create the configured administrator account`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logger.InfoLevel
		if verbose {
			level = logger.DebugLevel
		}
		logger.Configure(logger.Config{Level: level, Pretty: true})
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply pending migrations.

Examples:
  bazaar-migrate up              # Apply every pending migration
  bazaar-migrate up --steps 1    # Apply the next migration only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *appMigrations.Migrator) error {
			if steps > 0 {
				return m.Steps(steps)
			}
			return m.Up()
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert migrations",
	Long: `Revert applied migrations.

Examples:
  bazaar-migrate down            # Revert every migration
  bazaar-migrate down --steps 1  # Revert the last migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *appMigrations.Migrator) error {
			if steps > 0 {
				return m.Steps(-steps)
			}
			return m.Down()
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *appMigrations.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", v, dirty)
			return nil
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force VERSION",
	Short: "Set the schema version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withMigrator(func(m *appMigrations.Migrator) error {
			return m.Force(version)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the configured administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		users := repositories.NewUserRepository(database.Pool)
		return bootstrap.SeedDefaults(context.Background(), cfg, users, cliLogger())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join("configs", "config.yaml"), "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL, overrides the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	upCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply (0 means all)")
	downCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to revert (0 means all)")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd, seedCmd)
}

func cliLogger() zerolog.Logger {
	return logger.Component("migrate")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func withMigrator(fn func(*appMigrations.Migrator) error) error {
	dsn := dbURL
	if dsn == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dsn = cfg.GetPostgresConnectionString()
	}

	lgr := cliLogger()
	m, err := appMigrations.NewMigrator(dsn, lgr)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			lgr.Warn().Err(err).Msg("Failed to close migrator")
		}
	}()

	return fn(m)
}
