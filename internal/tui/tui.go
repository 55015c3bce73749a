package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("вышел из программы")

// TUI drives the terminal frontend: the gate flow in front of the vault and
// the ledger loop once a session key is cached.
type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services, buildInfo: buildInfo}, nil
}

// GateFlow walks the user through the vault gate: enrollment on first run,
// unlock, code recovery or a hard reset otherwise. It returns nil once the
// vault is unlocked and [ErrUserQuit] when the user leaves instead.
func (t *TUI) GateFlow(ctx context.Context) error {
	vault := t.services.VaultService

	pages := map[string]tea.Model{
		"menu":    NewGateMenuModel(ctx, vault),
		"setup":   NewSetupModel(ctx, vault),
		"unlock":  NewUnlockModel(ctx, vault),
		"recover": NewRecoverModel(ctx, vault),
		"reset":   NewResetModel(ctx, vault),
		"codes":   NewCodesModel(),
	}

	root := NewRootModel(pages, "menu", t.buildInfo)
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser || !result.unlocked {
		return ErrUserQuit
	}

	return nil
}

// LedgerLoop runs the unlocked part of the client: the transaction list
// with add, detail, delete, refresh and password change. It returns
// logout=true when the user locked the vault rather than quitting.
func (t *TUI) LedgerLoop(ctx context.Context) (logout bool, err error) {
	model := newLedgerModel(ctx, t.services)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(ledgerModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
