package service

import (
	"github.com/selfos/sync-server/internal/config"
	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/registry"
	"github.com/selfos/sync-server/internal/store"
)

type Services struct {
	AuthService    AuthService
	SyncService    SyncService
	AppInfoService AppInfoService
}

func NewServices(storages store.Storages, reg *registry.Registry, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, cfg.App, logger),
		SyncService:    NewSyncService(storages.SyncRepository, reg, cfg.Sync, logger),
		AppInfoService: appInfoService,
	}, nil
}
