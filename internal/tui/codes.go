package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// CodesModel shows freshly issued backup codes. This is the only place the
// plaintext codes ever appear: once the user confirms with enter they are
// gone for good, so the model insists on an explicit acknowledgement and
// offers a clipboard copy.
type CodesModel struct {
	codes  []string
	status string
}

func NewCodesModel() *CodesModel {
	return &CodesModel{}
}

func (m *CodesModel) Init() tea.Cmd {
	return nil
}

func (m *CodesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if issued, ok := msg.(CodesIssued); ok {
		m.codes = issued.Codes
		m.status = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "c":
		if len(m.codes) == 0 {
			return m, nil
		}
		if err := clipboard.WriteAll(strings.Join(m.codes, "\n")); err != nil {
			m.status = fmt.Sprintf("Ошибка копирования: %v", err)
			return m, nil
		}
		m.status = "Скопировано в буфер обмена"
	case "enter":
		return m, func() tea.Msg { return codesAck{} }
	}

	return m, nil
}

func (m *CodesModel) View() string {
	var b strings.Builder
	b.WriteString("Сохраните резервные коды в надёжном месте.\n")
	b.WriteString("Они показываются ТОЛЬКО СЕЙЧАС и заменяют забытый пароль.\n")
	b.WriteString("Каждый код можно использовать один раз.\n\n")

	for i, code := range m.codes {
		b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, code))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	return renderPage("РЕЗЕРВНЫЕ КОДЫ", strings.TrimRight(b.String(), "\n"), "c: копировать │ enter: я сохранил коды")
}
