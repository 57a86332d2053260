package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/RiftRunner_Go/internal/event"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

// Stopper is the HTTP server as seen by shutdown.
type Stopper interface {
	Stop(ctx context.Context) error
}

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             Stopper
	ResilientPublisher *event.ResilientPublisher
	Store              repository.Store
}

// GracefulShutdown stops the server first so no new runs start, then flushes
// pending events, then closes the store.
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Store != nil {
		slog.Info(LogMsgClosingStore)
		components.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}
