package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SetupModel is the Bubble Tea model for first-run vault enrollment. It
// renders two masked password inputs and dispatches an async setup command
// on form submission. On success a [SetupResult] message is produced and
// handled by [RootModel], which detours through the backup codes page.
type SetupModel struct {
	ctx   context.Context
	vault service.VaultService

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

// NewSetupModel creates a [SetupModel] with password and confirmation
// inputs. Both use masked echo; the first receives focus immediately.
func NewSetupModel(ctx context.Context, vault service.VaultService) *SetupModel {
	password := textinput.New()
	password.Placeholder = "мастер-пароль"
	password.CharLimit = 256
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.Focus()

	confirm := textinput.New()
	confirm.Placeholder = "повторите пароль"
	confirm.CharLimit = 256
	confirm.Width = 40
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	return &SetupModel{
		ctx:    ctx,
		vault:  vault,
		inputs: []textinput.Model{password, confirm},
	}
}

func (m *SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [SetupResult] — clears submitting state; on error, populates errMsg.
//   - esc           — cancels and navigates back to the menu.
//   - tab/shift+tab — cycles focus between the two inputs.
//   - enter         — validates (non-empty, matching) and dispatches the
//     async enrollment command.
//
// All other key events are forwarded to the focused input widget.
func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(SetupResult); ok {
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
			return m, m.cmdSetup(password)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *SetupModel) View() string {
	var b strings.Builder
	b.WriteString("Новое хранилище шифруется мастер-паролем.\n")
	b.WriteString("Забытый пароль восстанавливается только резервным кодом.\n\n")
	b.WriteString("Поле      │ Значение\n")
	b.WriteString("──────────┼────────────────────────────────────────────\n")
	b.WriteString("Пароль    │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Повтор    │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Создание хранилища...]\n")
	} else {
		b.WriteString("\n[Создать]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("СОЗДАНИЕ ХРАНИЛИЩА", strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: создать")
}

func (m *SetupModel) cmdSetup(password string) tea.Cmd {
	ctx := m.ctx
	vault := m.vault

	return func() tea.Msg {
		_, codes, err := vault.Setup(ctx, password)
		return SetupResult{Codes: codes, Err: err}
	}
}

func (m *SetupModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *SetupModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
