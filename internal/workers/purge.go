// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package workers

import (
	"context"
	"time"

	"github.com/selfos/sync-server/internal/config"
	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/service"
)

// purgeWorker permanently removes soft-deleted rows once they fall outside
// the retention window. Rows are kept around after deletion so that offline
// clients can still learn about the delete through the delta feed; after
// retention expires no client is expected to need them.
type purgeWorker struct {
	syncService service.SyncService

	interval  time.Duration
	retention time.Duration

	logger *logger.Logger
}

func newPurgeWorker(syncService service.SyncService, cfg config.Workers, logger *logger.Logger) *purgeWorker {
	return &purgeWorker{
		syncService: syncService,
		interval:    cfg.PurgeInterval,
		retention:   cfg.PurgeRetention,
		logger:      logger,
	}
}

// Run starts the periodic purge loop in a background goroutine and returns
// immediately.
func (p *purgeWorker) Run() {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for range ticker.C {
			p.purge(context.Background())
		}
	}()
}

func (p *purgeWorker) purge(ctx context.Context) {
	olderThan := time.Now().Add(-p.retention)

	purged, err := p.syncService.PurgeSoftDeleted(ctx, olderThan)
	if err != nil {
		p.logger.Error().Err(err).Str("func", "*purgeWorker.purge").Msg("retention purge failed")
		return
	}

	p.logger.Info().
		Str("func", "*purgeWorker.purge").
		Int64("purged", purged).
		Time("older_than", olderThan).
		Msg("retention purge completed")
}
