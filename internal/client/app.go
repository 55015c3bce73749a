package client

import (
	"context"
	"errors"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/internal/tui"
	"github.com/MKhiriev/fin-keeper/internal/workers"
)

// App binds the client services, the terminal UI and the background
// refresh worker into one runnable application.
type App struct {
	services *service.ClientServices
	tui      *tui.TUI
	workers  *workers.Workers
	refresh  *workers.RefreshWorker
	logger   *logger.Logger
}

// NewApp assembles the client runtime from already wired services and UI.
func NewApp(services *service.ClientServices, ui *tui.TUI, workersCfg config.ClientWorkers, logger *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app requires services and ui")
	}

	refresh := workers.NewRefreshWorker(services.ClientRefreshJob, workersCfg.RefreshInterval, logger)

	return &App{
		services: services,
		tui:      ui,
		workers:  workers.NewWorkers(refresh),
		refresh:  refresh,
		logger:   logger,
	}, nil
}

// Run drives the gate/ledger cycle until the user quits. A logout from the
// ledger loop locks the vault and returns the user to the gate.
func (a *App) Run() error {
	ctx := context.Background()

	// фоновое обновление само ждёт разблокировки и переживает циклы lock/unlock
	a.workers.Run()
	defer a.refresh.Stop()

	for {
		if err := a.tui.GateFlow(ctx); err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return err
		}

		logout, err := a.tui.LedgerLoop(ctx)

		// сессионный ключ уничтожается при любом выходе из журнала
		a.services.VaultService.Lock()

		if err != nil {
			return err
		}
		if !logout {
			return nil
		}
	}
}
