package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RecoverModel is the Bubble Tea model for unlocking with a one-time backup
// code. The second input optionally sets a new master password in the same
// step; either way a successful recovery issues a fresh batch of codes.
type RecoverModel struct {
	ctx   context.Context
	vault service.VaultService

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func NewRecoverModel(ctx context.Context, vault service.VaultService) *RecoverModel {
	code := textinput.New()
	code.Placeholder = "резервный код"
	code.CharLimit = 64
	code.Width = 40
	code.Focus()

	newPassword := textinput.New()
	newPassword.Placeholder = "новый пароль (можно пусто)"
	newPassword.CharLimit = 256
	newPassword.Width = 40
	newPassword.EchoMode = textinput.EchoPassword
	newPassword.EchoCharacter = '*'

	return &RecoverModel{
		ctx:    ctx,
		vault:  vault,
		inputs: []textinput.Model{code, newPassword},
	}
}

func (m *RecoverModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RecoverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(RecoverResult); ok {
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
		case "tab":
			m.focusNext()
			return m, nil
		case "shift+tab":
			m.focusPrev()
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			code := strings.TrimSpace(m.inputs[0].Value())
			if code == "" {
				m.errMsg = "Введите резервный код"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRecover(code, m.inputs[1].Value())
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *RecoverModel) View() string {
	var b strings.Builder
	b.WriteString("Каждый код срабатывает один раз.\n")
	b.WriteString("После восстановления будет выдан новый набор кодов.\n\n")
	b.WriteString("Поле          │ Значение\n")
	b.WriteString("──────────────┼────────────────────────────────────────\n")
	b.WriteString("Код           │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Новый пароль  │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Восстановление...]\n")
	} else {
		b.WriteString("\n[Восстановить]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("ВОССТАНОВЛЕНИЕ ПО КОДУ", strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: подтвердить")
}

func (m *RecoverModel) cmdRecover(code, newPassword string) tea.Cmd {
	ctx := m.ctx
	vault := m.vault

	return func() tea.Msg {
		_, codes, err := vault.Recover(ctx, code, newPassword)
		return RecoverResult{Codes: codes, Err: err}
	}
}

func (m *RecoverModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *RecoverModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
