package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type resetStage int

const (
	resetStageWarn resetStage = iota
	resetStageWarnAgain
	resetStageForm
)

// ResetModel is the Bubble Tea model for a hard reset of the vault. The
// reset is irreversible, so the model demands two explicit confirmations
// before it even shows the new password form.
type ResetModel struct {
	ctx   context.Context
	vault service.VaultService

	stage      resetStage
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func NewResetModel(ctx context.Context, vault service.VaultService) *ResetModel {
	m := &ResetModel{
		ctx:   ctx,
		vault: vault,
	}
	m.initInputs()
	return m
}

// Init rewinds the flow to the first warning: every visit to the page must
// pass both confirmations again.
func (m *ResetModel) Init() tea.Cmd {
	m.stage = resetStageWarn
	m.submitting = false
	m.errMsg = ""
	m.initInputs()
	return textinput.Blink
}

func (m *ResetModel) initInputs() {
	password := textinput.New()
	password.Placeholder = "новый мастер-пароль"
	password.CharLimit = 256
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	confirm := textinput.New()
	confirm.Placeholder = "повторите пароль"
	confirm.CharLimit = 256
	confirm.Width = 40
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	m.inputs = []textinput.Model{password, confirm}
	m.focus = 0
}

func (m *ResetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(ResetResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = vaultErrorMessage(result.Err)
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.stage == resetStageForm {
			return m.updateForm(msg)
		}
		return m, nil
	}

	switch m.stage {
	case resetStageWarn, resetStageWarnAgain:
		switch keyMsg.String() {
		case "y":
			if m.stage == resetStageWarn {
				m.stage = resetStageWarnAgain
			} else {
				m.stage = resetStageForm
				m.inputs[0].Focus()
			}
			return m, nil
		case "n", "esc":
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		}
		return m, nil
	default:
		return m.updateForm(msg)
	}
}

func (m *ResetModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

			password := m.inputs[0].Value()
			confirm := m.inputs[1].Value()
			if password == "" || confirm == "" {
				m.errMsg = "Оба поля обязательны"
				return m, nil
			}
			if password != confirm {
				m.errMsg = "Пароли не совпадают"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdReset(password)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *ResetModel) View() string {
	switch m.stage {
	case resetStageWarn:
		body := "Сброс создаёт новый ключ шифрования.\n" +
			"ВСЕ СУЩЕСТВУЮЩИЕ ЗАПИСИ СТАНУТ НЕЧИТАЕМЫМИ НАВСЕГДА.\n\n" +
			"Продолжить?"
		return renderPage("СБРОС ХРАНИЛИЩА", body, "y: да │ n/esc: отмена")
	case resetStageWarnAgain:
		body := "Отменить сброс после подтверждения невозможно.\n\n" +
			"Вы точно уверены?"
		return renderPage("СБРОС ХРАНИЛИЩА: ПОДТВЕРЖДЕНИЕ", body, "y: да, удалить всё │ n/esc: отмена")
	}

	var b strings.Builder
	b.WriteString("Поле      │ Значение\n")
	b.WriteString("──────────┼────────────────────────────────────────────\n")
	b.WriteString("Пароль    │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Повтор    │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Сброс...]\n")
	} else {
		b.WriteString("\n[Сбросить и создать заново]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("СБРОС ХРАНИЛИЩА: НОВЫЙ ПАРОЛЬ", strings.TrimRight(b.String(), "\n"), "esc: отмена │ tab: след. поле │ enter: сбросить")
}

func (m *ResetModel) cmdReset(password string) tea.Cmd {
	ctx := m.ctx
	vault := m.vault

	return func() tea.Msg {
		_, codes, err := vault.HardReset(ctx, password)
		return ResetResult{Codes: codes, Err: err}
	}
}

func (m *ResetModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *ResetModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
