package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/NureAlam68/magical-meals-server/internal/config"
	"github.com/NureAlam68/magical-meals-server/internal/db"
	"github.com/NureAlam68/magical-meals-server/internal/es"
	"github.com/NureAlam68/magical-meals-server/internal/logging"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/service"
)

func openDB(cfg config.Config) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return db.Open(ctx, cfg.DatabaseURL)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Require(config.EnvDatabaseURL); err != nil {
				return err
			}

			gdb, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := db.Migrate(cmd.Context(), gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote [email]",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Require(config.EnvDatabaseURL); err != nil {
				return err
			}

			gdb, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			users := &service.UserService{Repo: repo.New(gdb)}
			if err := users.PromoteUserByEmail(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("promote %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
			return nil
		},
	}
}

func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Write every stored menu item to the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Require(config.EnvDatabaseURL, config.EnvESURL); err != nil {
				return err
			}

			gdb, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "command", "reindex")
			client, err := es.NewClient(cfg, logger)
			if err != nil {
				return fmt.Errorf("elasticsearch: %w", err)
			}

			menu := &service.MenuService{Repo: repo.New(gdb), Index: es.NewMenuIndex(client, cfg.ESIndex)}
			n, err := menu.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d menu items\n", n)
			return nil
		},
	}
}
