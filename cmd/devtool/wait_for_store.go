package main

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/bootstrap"
	"github.com/osse101/RiftRunner_Go/internal/config"
)

const (
	waitMaxRetries    = 30
	waitRetryInterval = 2 * time.Second
	waitPingTimeout   = 5 * time.Second
)

type WaitForStoreCommand struct{}

func (c *WaitForStoreCommand) Name() string {
	return "wait-for-store"
}

func (c *WaitForStoreCommand) Description() string {
	return "Wait for the configured store to accept connections (with retries)"
}

func (c *WaitForStoreCommand) Run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// schema changes are the migrate command's job
	cfg.MigrateOnStart = false

	PrintHeader(fmt.Sprintf("Waiting for %s store...", cfg.StoreBackend))

	for i := 0; i < waitMaxRetries; i++ {
		err = pingStore(cfg)
		if err == nil {
			PrintSuccess("Store is ready")
			return nil
		}

		fmt.Printf("Store not ready (%d/%d): %v\n", i+1, waitMaxRetries, err)
		time.Sleep(waitRetryInterval)
	}

	return fmt.Errorf("store failed to become ready after %d attempts: %w", waitMaxRetries, err)
}

func pingStore(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), waitPingTimeout)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Ping(ctx)
}
