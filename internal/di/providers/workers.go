package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/flashlearn/flashlearn-server/internal/config"
	"github.com/flashlearn/flashlearn-server/internal/logger"
	"github.com/flashlearn/flashlearn-server/internal/service"
	"github.com/flashlearn/flashlearn-server/internal/watcher"
)

// DropFolderHandle wraps the drop folder importer with shutdown capability.
// Importer is nil when the watcher is disabled by configuration.
type DropFolderHandle struct {
	importer *watcher.Importer
	cancel   context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *DropFolderHandle) Shutdown() error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// ProvideDropFolderImporter provides the drop folder import watcher.
func ProvideDropFolderImporter(i do.Injector) (*DropFolderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Import.WatchPath == "" {
		log.Info("Drop folder import disabled by configuration")
		return &DropFolderHandle{}, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	transferService := do.MustInvoke[*service.TransferService](i)

	importer, err := watcher.New(cfg.Import.WatchPath, storeHandle.Store, transferService, log.Logger, watcher.Options{})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := importer.Start(ctx); err != nil {
			log.Error("Drop folder watcher error", "error", err)
		}
	}()

	return &DropFolderHandle{importer: importer, cancel: cancel}, nil
}

// SessionCleanupJob runs periodic expired session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}
