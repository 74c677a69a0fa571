package store

import "github.com/selfos/sync-server/internal/logger"

type Storages struct {
	UserRepository UserRepository
	SyncRepository SyncRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository: NewUserRepository(db, log),
		SyncRepository: NewSyncRepository(db, log),
	}
}
