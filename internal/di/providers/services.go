package providers

import (
	"github.com/samber/do/v2"

	"github.com/flashlearn/flashlearn-server/internal/auth"
	"github.com/flashlearn/flashlearn-server/internal/logger"
	"github.com/flashlearn/flashlearn-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideCardService provides the card CRUD service.
func ProvideCardService(i do.Injector) (*service.CardService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCardService(storeHandle.Store, log.Logger), nil
}

// ProvideTransferService provides the import/export service.
func ProvideTransferService(i do.Injector) (*service.TransferService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTransferService(storeHandle.Store, log.Logger), nil
}

// ProvideStudyService provides the study session service.
func ProvideStudyService(i do.Injector) (*service.StudyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStudyService(storeHandle.Store, log.Logger), nil
}
