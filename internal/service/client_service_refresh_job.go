package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/logger"
)

// defaultRefreshInterval is used when the job is started with a
// non-positive interval.
const defaultRefreshInterval = 5 * time.Minute

// clientRefreshJob implements [ClientRefreshJob].
//
// The loop is driven by the vault gate: it sleeps until the vault unlocks,
// reloads the ledger once, then refreshes on every tick while the vault
// stays unlocked. After a lock it goes back to waiting for the next unlock
// instead of burning ticks.
type clientRefreshJob struct {
	vault  VaultService
	ledger ClientLedgerService

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewClientRefreshJob returns a stopped ClientRefreshJob bound to the
// given vault gate and ledger service.
func NewClientRefreshJob(vault VaultService, ledger ClientLedgerService, logger *logger.Logger) ClientRefreshJob {
	return &clientRefreshJob{
		vault:  vault,
		ledger: ledger,
		logger: logger,
	}
}

// Start implements [ClientRefreshJob].
func (j *clientRefreshJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	// Перезапуск: сначала останавливаем предыдущий цикл
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-j.vault.Unlocked():
			}

			if err := j.ledger.Refresh(jobCtx); err != nil {
				j.logger.Err(err).
					Str("func", "clientRefreshJob.Start").
					Msg("ledger refresh after unlock failed")
			}

			if !j.runWhileUnlocked(jobCtx, interval) {
				return
			}
		}
	}()
}

// runWhileUnlocked refreshes on every tick until the vault locks again.
// Returns false when the job context is cancelled.
func (j *clientRefreshJob) runWhileUnlocked(ctx context.Context, interval time.Duration) bool {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			if !j.vault.IsUnlocked() {
				return true
			}
			if err := j.ledger.Refresh(ctx); err != nil {
				j.logger.Err(err).
					Str("func", "clientRefreshJob.runWhileUnlocked").
					Msg("periodic ledger refresh failed")
			}
		}
	}
}

// Stop implements [ClientRefreshJob].
func (j *clientRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
