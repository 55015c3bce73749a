package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// UnlockModel is the Bubble Tea model for the unlock screen: one masked
// password input. A wrong password keeps the form open with an error line;
// ctrl+r switches to code recovery for users who lost the password.
type UnlockModel struct {
	ctx   context.Context
	vault service.VaultService

	input      textinput.Model
	submitting bool
	errMsg     string
}

func NewUnlockModel(ctx context.Context, vault service.VaultService) *UnlockModel {
	password := textinput.New()
	password.Placeholder = "мастер-пароль"
	password.CharLimit = 256
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.Focus()

	return &UnlockModel{
		ctx:   ctx,
		vault: vault,
		input: password,
	}
}

func (m *UnlockModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *UnlockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(UnlockResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = vaultErrorMessage(result.Err)
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case "ctrl+r":
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: "recover"} }
		case "enter":
			if m.submitting {
				return m, nil
			}

			password := m.input.Value()
			if password == "" {
				m.errMsg = "Введите мастер-пароль"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdUnlock(password)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *UnlockModel) View() string {
	var b strings.Builder
	b.WriteString("Поле      │ Значение\n")
	b.WriteString("──────────┼────────────────────────────────────────────\n")
	b.WriteString("Пароль    │ [")
	b.WriteString(m.input.View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Разблокировка...]\n")
	} else {
		b.WriteString("\n[Разблокировать]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("РАЗБЛОКИРОВКА", strings.TrimRight(b.String(), "\n"), "esc: назад │ ctrl+r: восстановление по коду │ enter: подтвердить")
}

func (m *UnlockModel) cmdUnlock(password string) tea.Cmd {
	ctx := m.ctx
	vault := m.vault

	return func() tea.Msg {
		_, err := vault.Unlock(ctx, password)
		return UnlockResult{Err: err}
	}
}
