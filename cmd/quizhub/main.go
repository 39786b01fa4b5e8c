package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/go-arcade/quizhub/internal/engine/config"
	_ "github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/go-arcade/quizhub/pkg/database"
	"github.com/go-arcade/quizhub/pkg/log"
	"github.com/go-arcade/quizhub/pkg/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "quizhub",
	Short:         "quizhub is the team and game schedule backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, telegram bot and reminder scheduler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, cleanup, err := initApp(configFile)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
		defer stop()

		log.Infow("quizhub starting", "version", version.GetVersion().String(), "conf", configFile)
		return app.Run(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		m, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg := m.Config()
		if _, err := log.NewLog(&cfg.Log); err != nil {
			return err
		}

		cfg.Database.AutoMigrate = false
		db, err := database.NewDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Infow("database migrated", "models", len(database.GetRegisteredModels()))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path, e.g. --conf ./conf.d/config.toml")
	rootCmd.AddCommand(serveCmd, migrateCmd, version.VersionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
