package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/fin-keeper/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// gateMenuItem binds a visible menu row to the page it opens.
type gateMenuItem struct {
	label string
	page  string
}

// GateMenuModel is the entry screen of the gate flow. On Init it checks
// whether an encryption profile is already enrolled and offers either the
// enrollment action or the unlock/recover/reset set.
type GateMenuModel struct {
	ctx   context.Context
	vault service.VaultService

	checking bool
	items    []gateMenuItem
	idx      int
	errMsg   string
}

func NewGateMenuModel(ctx context.Context, vault service.VaultService) *GateMenuModel {
	return &GateMenuModel{
		ctx:      ctx,
		vault:    vault,
		checking: true,
	}
}

// Init re-runs the enrollment check every time the menu is opened, so a
// profile created moments ago is picked up when the user navigates back.
func (m *GateMenuModel) Init() tea.Cmd {
	m.checking = true
	m.idx = 0
	return m.cmdCheckProfile()
}

func (m *GateMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if status, ok := msg.(profileStatusMsg); ok {
		m.checking = false
		present := status.present
		if status.err != nil {
			m.errMsg = humanizeServerUnavailableError(status.err)
			// состояние неизвестно: показываем действия для уже созданного хранилища
			present = true
		} else {
			m.errMsg = ""
		}
		m.items = gateMenuItems(present)
		if m.idx >= len(m.items) {
			m.idx = 0
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.checking {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case "enter":
		if m.idx < len(m.items) {
			page := m.items[m.idx].page
			return m, func() tea.Msg { return NavigateTo{Page: page} }
		}
	}

	return m, nil
}

func (m *GateMenuModel) View() string {
	if m.checking {
		return renderPage("FINKEEPER", "Проверка хранилища...", "")
	}

	var b strings.Builder

	idColWidth := lipgloss.Width("ID")
	itemsCountWidth := lipgloss.Width(fmt.Sprintf("%d", len(m.items)))
	if itemsCountWidth > idColWidth {
		idColWidth = itemsCountWidth
	}
	idColWidth += 2 // reserve space for selection marker and space ("<marker> <id>")

	actionColWidth := lipgloss.Width("Действие")
	for _, item := range m.items {
		if w := lipgloss.Width(item.label); w > actionColWidth {
			actionColWidth = w
		}
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, "ID", actionColWidth, "Действие"))
	b.WriteString(strings.Repeat("─", idColWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", actionColWidth))
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		idCell := fmt.Sprintf("%s %d", cursor, i+1)
		b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, idCell, actionColWidth, item.label))
	}

	return renderPage("FINKEEPER", strings.TrimRight(b.String(), "\n"), "enter: выбрать │ ↑/↓: навигация │ v: версия")
}

func (m *GateMenuModel) cmdCheckProfile() tea.Cmd {
	ctx := m.ctx
	vault := m.vault

	return func() tea.Msg {
		present, err := vault.IsProfilePresent(ctx)
		return profileStatusMsg{present: present, err: err}
	}
}

func gateMenuItems(profilePresent bool) []gateMenuItem {
	if !profilePresent {
		return []gateMenuItem{
			{label: "Создать хранилище", page: "setup"},
		}
	}
	return []gateMenuItem{
		{label: "Разблокировать", page: "unlock"},
		{label: "Восстановить по коду", page: "recover"},
		{label: "Сбросить хранилище", page: "reset"},
	}
}
