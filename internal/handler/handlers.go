package handler

import (
	"github.com/selfos/sync-server/internal/config"
	"github.com/selfos/sync-server/internal/handler/http"
	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, logger),
	}, nil
}
