package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/service"
)

// RefreshWorker runs the client ledger refresh job in the background.
//
// Run returns immediately: the job itself sleeps until the vault unlocks,
// reloads the ledger once, then keeps the local cache warm on a ticker for
// as long as the vault stays unlocked.
type RefreshWorker struct {
	job      service.ClientRefreshJob
	interval time.Duration
	logger   *logger.Logger
}

// NewRefreshWorker binds the refresh job to a tick interval. A non-positive
// interval falls back to the job's default.
func NewRefreshWorker(job service.ClientRefreshJob, interval time.Duration, logger *logger.Logger) *RefreshWorker {
	return &RefreshWorker{
		job:      job,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the refresh loop.
func (w *RefreshWorker) Run() {
	w.logger.Info().Dur("interval", w.interval).Msg("starting ledger refresh worker")
	w.job.Start(context.Background(), w.interval)
}

// Stop terminates the refresh loop and waits for it to exit.
func (w *RefreshWorker) Stop() {
	w.job.Stop()
	w.logger.Info().Msg("ledger refresh worker stopped")
}
