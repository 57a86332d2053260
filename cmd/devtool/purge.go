package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/bootstrap"
	"github.com/osse101/RiftRunner_Go/internal/config"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

const purgeTimeout = time.Minute

type PurgeSessionsCommand struct{}

func (c *PurgeSessionsCommand) Name() string {
	return "purge-sessions"
}

func (c *PurgeSessionsCommand) Description() string {
	return "Delete run sessions that expired before now minus -grace"
}

func (c *PurgeSessionsCommand) Run(args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	grace := fs.Duration("grace", time.Hour, "keep sessions that expired less than this long ago")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *grace < 0 {
		return fmt.Errorf("grace must not be negative")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := purgeSessions(ctx, store, time.Now().UTC().Add(-*grace))
	if err != nil {
		return err
	}
	if n < 0 {
		PrintInfo("STORE_BACKEND=%s expires sessions natively", cfg.StoreBackend)
		return nil
	}
	PrintSuccess("Purged %d expired sessions", n)
	return nil
}

// purgeSessions reports -1 when the backend expires sessions on its own.
func purgeSessions(ctx context.Context, store repository.Store, cutoff time.Time) (int64, error) {
	purger, ok := store.(repository.SessionPurger)
	if !ok {
		return -1, nil
	}
	return purger.PurgeExpiredSessions(ctx, cutoff)
}
