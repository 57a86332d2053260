package main

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/config"
	"github.com/osse101/RiftRunner_Go/internal/database"
)

const migrateTimeout = time.Minute

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply or inspect the postgres schema (up, status)"
}

func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, status")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreBackend != config.StoreBackendPostgres {
		PrintWarning("STORE_BACKEND=%s has no schema to migrate", cfg.StoreBackend)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), 1, time.Minute, time.Minute)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch args[0] {
	case "up":
		PrintHeader("Applying migrations")
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		PrintSuccess("Schema is up to date")
		return nil

	case "status":
		PrintHeader("Migration status")
		states, err := database.MigrationStatus(ctx, pool)
		if err != nil {
			return err
		}
		for _, st := range states {
			if st.Applied {
				PrintSuccess("%05d %s", st.Version, st.Source)
			} else {
				PrintWarning("%05d %s (pending)", st.Version, st.Source)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q: want up or status", args[0])
	}
}
