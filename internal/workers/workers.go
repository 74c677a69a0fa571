package workers

import (
	"github.com/selfos/sync-server/internal/config"
	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the background workers enabled by the given
// configuration. A zero PurgeInterval disables the retention worker.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	ws := &Workers{}

	if cfg.PurgeInterval > 0 {
		ws.workers = append(ws.workers, newPurgeWorker(services.SyncService, cfg, logger))
	}

	return ws
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
