package providers

import (
	"github.com/samber/do/v2"

	"github.com/flashlearn/flashlearn-server/internal/config"
	"github.com/flashlearn/flashlearn-server/internal/logger"
	"github.com/flashlearn/flashlearn-server/internal/store"
	"github.com/flashlearn/flashlearn-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite-backed store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.DatabasePath())

	return &StoreHandle{Store: db}, nil
}
