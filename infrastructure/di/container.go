package di

import (
	"graphmem/application/ports"
	"graphmem/application/services"
	"graphmem/infrastructure/config"
	"graphmem/interfaces/http/rest"
	"graphmem/pkg/auth"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        ports.StateStore
	GraphService *services.GraphService
	Validator    *auth.JWTValidator
	Router       *rest.Router
}

// Shutdown flushes buffered log entries.
func (c *Container) Shutdown() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
