// Package di provides dependency injection configuration for the FlashLearn server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/flashlearn/flashlearn-server/internal/auth"
	"github.com/flashlearn/flashlearn-server/internal/config"
	"github.com/flashlearn/flashlearn-server/internal/di/providers"
	"github.com/flashlearn/flashlearn-server/internal/logger"
	"github.com/flashlearn/flashlearn-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCardService)
	do.Provide(injector, providers.ProvideTransferService)
	do.Provide(injector, providers.ProvideStudyService)

	// Workers
	do.Provide(injector, providers.ProvideDropFolderImporter)
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.CardService](injector)
	_ = do.MustInvoke[*service.TransferService](injector)
	_ = do.MustInvoke[*service.StudyService](injector)

	// Workers
	_ = do.MustInvoke[*providers.DropFolderHandle](injector)
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
