package http

import (
	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/service"
	"github.com/selfos/sync-server/internal/validators"
)

type Handler struct {
	services  *service.Services
	validator validators.Validator

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		validator: validators.NewSyncRequestValidator(),
		logger:    logger,
	}
}
