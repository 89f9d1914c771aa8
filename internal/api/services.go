package api

import (
	"github.com/flashlearn/flashlearn-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Session  *service.SessionService
	Card     *service.CardService
	Transfer *service.TransferService
	Study    *service.StudyService
}
