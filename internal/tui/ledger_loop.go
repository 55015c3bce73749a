package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const uiDateLayout = "02.01.2006"

type ledgerModel struct {
	ctx      context.Context
	services *service.ClientServices

	items      []models.Transaction
	idx        int
	loading    bool
	refreshing bool
	status     string
	errMsg     string
	detail     bool

	adding    bool
	addInputs []textinput.Model
	addFocus  int
	addSaving bool
	addErr    string

	pwdChanging   bool
	pwdInputs     []textinput.Model
	pwdFocus      int
	pwdSubmitting bool
	pwdErr        string

	logout bool
}

type txListLoadedMsg struct {
	items []models.Transaction
	err   error
}

type refreshDoneMsg struct {
	err error
}

type txCreatedMsg struct {
	err error
}

type txDeletedMsg struct {
	err error
}

type pwdChangedMsg struct {
	err error
}

var errRecordUIDNotSet = errors.New("record uid не установлен")

func newLedgerModel(ctx context.Context, services *service.ClientServices) ledgerModel {
	return ledgerModel{
		ctx:      ctx,
		services: services,
		loading:  true,
	}
}

func (m ledgerModel) Init() tea.Cmd {
	return m.cmdLoadItems()
}

func (m ledgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txListLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = vaultErrorMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.items = msg.items
		if m.idx >= len(m.items) {
			m.idx = len(m.items) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil
	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.errMsg = refreshErrorMessage(msg.err)
			return m, nil
		}
		m.status = "Обновление завершено"
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadItems()
	case txDeletedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Ошибка удаления: %v", msg.err)
			return m, nil
		}
		m.status = "Запись удалена"
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadItems()
	case txCreatedMsg:
		m.addSaving = false
		if msg.err != nil {
			m.addErr = vaultErrorMessage(msg.err)
			return m, nil
		}
		m.status = "Запись добавлена!"
		m.errMsg = ""
		m.resetAdd()
		m.loading = true
		return m, m.cmdLoadItems()
	case pwdChangedMsg:
		m.pwdSubmitting = false
		if msg.err != nil {
			m.pwdErr = vaultErrorMessage(msg.err)
			return m, nil
		}
		m.status = "Мастер-пароль изменён"
		m.errMsg = ""
		m.resetPwdChange()
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.adding {
			return m.updateAdd(msg)
		}
		if m.pwdChanging {
			return m.updatePwdChange(msg)
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.adding {
		return m.updateAdd(msg)
	}

	if m.pwdChanging {
		return m.updatePwdChange(msg)
	}

	if m.detail {
		item, ok := m.current()
		if !ok {
			m.detail = false
			return m, nil
		}

		switch keyMsg.String() {
		case "esc":
			m.detail = false
		case "c":
			if err := clipboard.WriteAll(item.Description); err != nil {
				m.errMsg = fmt.Sprintf("Ошибка копирования: %v", err)
				return m, nil
			}
			m.status = "Скопировано"
		case "ctrl+d":
			if strings.TrimSpace(item.RecordUID) == "" {
				m.errMsg = fmt.Sprintf("Ошибка удаления: %v", errRecordUIDNotSet)
				return m, nil
			}
			m.detail = false
			return m, m.cmdDelete(item.RecordUID)
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case "a":
		m.startAdd()
		return m, nil
	case "s":
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		m.status = "Обновление..."
		m.errMsg = ""
		return m, m.cmdRefresh()
	case "p":
		m.startPwdChange()
		return m, nil
	case "enter":
		if _, ok := m.current(); !ok {
			m.status = "Нет записей"
			return m, nil
		}
		m.detail = true
	case "ctrl+d":
		item, ok := m.current()
		if !ok {
			m.status = "Нет записей"
			return m, nil
		}
		if strings.TrimSpace(item.RecordUID) == "" {
			m.errMsg = fmt.Sprintf("Ошибка удаления: %v", errRecordUIDNotSet)
			return m, nil
		}
		return m, m.cmdDelete(item.RecordUID)
	case "l":
		m.logout = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *ledgerModel) startAdd() {
	amount := textinput.New()
	amount.Placeholder = "-50.00"
	amount.CharLimit = 20
	amount.Width = 40
	amount.Focus()

	description := textinput.New()
	description.Placeholder = "на что потрачено"
	description.CharLimit = 256
	description.Width = 40

	category := textinput.New()
	category.Placeholder = "категория (можно пусто)"
	category.CharLimit = 64
	category.Width = 40

	date := textinput.New()
	date.Placeholder = "дд.мм.гггг (пусто = сегодня)"
	date.CharLimit = 10
	date.Width = 40

	m.addInputs = []textinput.Model{amount, description, category, date}
	m.addFocus = 0
	m.addSaving = false
	m.addErr = ""
	m.adding = true
}

func (m *ledgerModel) resetAdd() {
	m.adding = false
	m.addInputs = nil
	m.addFocus = 0
	m.addSaving = false
	m.addErr = ""
}

func (m ledgerModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.resetAdd()
			return m, nil
		case "tab":
			m.addInputs[m.addFocus].Blur()
			m.addFocus = (m.addFocus + 1) % len(m.addInputs)
			m.addInputs[m.addFocus].Focus()
			return m, nil
		case "shift+tab":
			m.addInputs[m.addFocus].Blur()
			m.addFocus = (m.addFocus - 1 + len(m.addInputs)) % len(m.addInputs)
			m.addInputs[m.addFocus].Focus()
			return m, nil
		case "enter":
			if m.addSaving {
				return m, nil
			}

			tx, err := m.collectTransaction()
			if err != nil {
				m.addErr = err.Error()
				return m, nil
			}

			m.addErr = ""
			m.addSaving = true
			return m, m.cmdCreate(tx)
		}
	}

	var cmd tea.Cmd
	m.addInputs[m.addFocus], cmd = m.addInputs[m.addFocus].Update(msg)
	return m, cmd
}

// collectTransaction validates the add form and builds the plaintext
// transaction. The record UID and a zero date are filled by the service.
func (m *ledgerModel) collectTransaction() (models.Transaction, error) {
	amountRaw := strings.TrimSpace(m.addInputs[0].Value())
	description := strings.TrimSpace(m.addInputs[1].Value())
	category := strings.TrimSpace(m.addInputs[2].Value())
	dateRaw := strings.TrimSpace(m.addInputs[3].Value())

	if amountRaw == "" || description == "" {
		return models.Transaction{}, fmt.Errorf("сумма и описание обязательны")
	}

	amount, err := parseAmount(amountRaw)
	if err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		Amount:      amount,
		Description: description,
		Category:    category,
	}

	if dateRaw != "" {
		occurredAt, err := time.ParseInLocation(uiDateLayout, dateRaw, time.Local)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("дата в формате дд.мм.гггг")
		}
		tx.OccurredAt = occurredAt
	}

	return tx, nil
}

func (m *ledgerModel) startPwdChange() {
	oldPassword := textinput.New()
	oldPassword.Placeholder = "текущий пароль"
	oldPassword.CharLimit = 256
	oldPassword.Width = 40
	oldPassword.EchoMode = textinput.EchoPassword
	oldPassword.EchoCharacter = '*'
	oldPassword.Focus()

	newPassword := textinput.New()
	newPassword.Placeholder = "новый пароль"
	newPassword.CharLimit = 256
	newPassword.Width = 40
	newPassword.EchoMode = textinput.EchoPassword
	newPassword.EchoCharacter = '*'

	confirm := textinput.New()
	confirm.Placeholder = "повторите новый пароль"
	confirm.CharLimit = 256
	confirm.Width = 40
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	m.pwdInputs = []textinput.Model{oldPassword, newPassword, confirm}
	m.pwdFocus = 0
	m.pwdSubmitting = false
	m.pwdErr = ""
	m.pwdChanging = true
}

func (m *ledgerModel) resetPwdChange() {
	m.pwdChanging = false
	m.pwdInputs = nil
	m.pwdFocus = 0
	m.pwdSubmitting = false
	m.pwdErr = ""
}

func (m ledgerModel) updatePwdChange(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.resetPwdChange()
			return m, nil
		case "tab":
			m.pwdInputs[m.pwdFocus].Blur()
			m.pwdFocus = (m.pwdFocus + 1) % len(m.pwdInputs)
			m.pwdInputs[m.pwdFocus].Focus()
			return m, nil
		case "shift+tab":
			m.pwdInputs[m.pwdFocus].Blur()
			m.pwdFocus = (m.pwdFocus - 1 + len(m.pwdInputs)) % len(m.pwdInputs)
			m.pwdInputs[m.pwdFocus].Focus()
			return m, nil
		case "enter":
			if m.pwdSubmitting {
				return m, nil
			}

			oldPassword := m.pwdInputs[0].Value()
			newPassword := m.pwdInputs[1].Value()
			confirm := m.pwdInputs[2].Value()
			if oldPassword == "" || newPassword == "" || confirm == "" {
				m.pwdErr = "Все поля обязательны"
				return m, nil
			}
			if newPassword != confirm {
				m.pwdErr = "Пароли не совпадают"
				return m, nil
			}

			m.pwdErr = ""
			m.pwdSubmitting = true
			return m, m.cmdChangePassword(oldPassword, newPassword)
		}
	}

	var cmd tea.Cmd
	m.pwdInputs[m.pwdFocus], cmd = m.pwdInputs[m.pwdFocus].Update(msg)
	return m, cmd
}

func (m ledgerModel) View() string {
	if m.adding {
		return m.viewAdd()
	}
	if m.pwdChanging {
		return m.viewPwdChange()
	}
	if m.detail {
		item, ok := m.current()
		if !ok {
			return renderPage("ПРОСМОТР ЗАПИСИ", "Запись не найдена", "esc: назад")
		}
		return m.viewDetail(item)
	}

	out := ""

	if m.loading {
		out += "Загрузка журнала...\n"
		return renderPage("ЖУРНАЛ ОПЕРАЦИЙ", strings.TrimRight(out, "\n"), ledgerHotKeys)
	}

	if m.errMsg != "" {
		out += errorStyle.Render("Ошибка: "+m.errMsg) + "\n"
	}
	if m.status != "" {
		out += "Статус: " + m.status + "\n"
	}

	if len(m.items) == 0 {
		if out != "" {
			out += "\n"
		}
		out += "Записей нет. Нажмите «a», чтобы добавить первую.\n"
	} else {
		if out != "" {
			out += "\n"
		}
		out += " #   │ Дата       │ Сумма        │ Категория        │ Описание\n"
		out += "─────┼────────────┼──────────────┼──────────────────┼──────────────────────\n"
		for i, item := range m.items {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}

			out += fmt.Sprintf(
				"%s %-3d│ %s │ %12s │ %-16s │ %s\n",
				cursor,
				i+1,
				item.OccurredAt.Format(uiDateLayout),
				formatAmount(item.Amount),
				fitText(orDash(item.Category), 16),
				fitText(item.Description, 22),
			)
		}
	}

	return renderPage("ЖУРНАЛ ОПЕРАЦИЙ", strings.TrimRight(out, "\n"), ledgerHotKeys)
}

const ledgerHotKeys = "a: добавить │ s: обновить │ enter: открыть │ ctrl+d: уд. │ p: пароль │ l: заблокировать │ q: выход"

func (m ledgerModel) viewAdd() string {
	out := "Поле      │ Значение\n"
	out += "──────────┼──────────────────────────────────────────\n"
	out += "Сумма     │ [" + m.addInputs[0].View() + "]\n"
	out += "Описание  │ [" + m.addInputs[1].View() + "]\n"
	out += "Категория │ [" + m.addInputs[2].View() + "]\n"
	out += "Дата      │ [" + m.addInputs[3].View() + "]\n"
	if m.addSaving {
		out += "Действие  │ [Сохранение...]\n"
	} else {
		out += "Действие  │ [Сохранить]\n"
	}
	if m.addErr != "" {
		out += "\n" + errorStyle.Render("Ошибка: "+m.addErr) + "\n"
	}
	return renderPage("НОВАЯ ОПЕРАЦИЯ", strings.TrimRight(out, "\n"), "esc: отмена │ tab: след. поле │ enter: сохранить")
}

func (m ledgerModel) viewPwdChange() string {
	out := "Поле          │ Значение\n"
	out += "──────────────┼──────────────────────────────────────\n"
	out += "Текущий       │ [" + m.pwdInputs[0].View() + "]\n"
	out += "Новый         │ [" + m.pwdInputs[1].View() + "]\n"
	out += "Повтор        │ [" + m.pwdInputs[2].View() + "]\n"
	if m.pwdSubmitting {
		out += "\n[Смена пароля...]\n"
	} else {
		out += "\n[Сменить пароль]\n"
	}
	if m.pwdErr != "" {
		out += "\n" + errorStyle.Render("Ошибка: "+m.pwdErr) + "\n"
	}
	return renderPage("СМЕНА МАСТЕР-ПАРОЛЯ", strings.TrimRight(out, "\n"), "esc: отмена │ tab: след. поле │ enter: подтвердить")
}

func (m ledgerModel) viewDetail(item models.Transaction) string {
	var b strings.Builder

	b.WriteString("Сумма     : " + formatAmount(item.Amount))
	if item.Currency != "" {
		b.WriteString(" " + item.Currency)
	}
	b.WriteString("\n")
	b.WriteString("Дата      : " + item.OccurredAt.Format(uiDateLayout) + "\n")
	b.WriteString("Категория : " + orDash(item.Category) + "\n")
	b.WriteString("Описание  : " + item.Description + "\n")
	b.WriteString("UID       : " + orDash(item.RecordUID) + "\n")

	if m.status != "" {
		b.WriteString("\nСтатус: " + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Ошибка: "+m.errMsg) + "\n")
	}

	return renderPage(
		"ОПЕРАЦИЯ: "+fitText(item.Description, 30),
		strings.TrimRight(b.String(), "\n"),
		"c: копировать описание │ ctrl+d: удалить │ esc: назад",
	)
}

func (m ledgerModel) current() (models.Transaction, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.Transaction{}, false
	}
	return m.items[m.idx], true
}

func (m ledgerModel) cmdLoadItems() tea.Cmd {
	ctx := m.ctx
	svc := m.services.ClientLedgerService

	return func() tea.Msg {
		items, err := svc.ListTransactions(ctx, models.RecordsFilter{})
		return txListLoadedMsg{items: items, err: err}
	}
}

func (m ledgerModel) cmdRefresh() tea.Cmd {
	ctx := m.ctx
	svc := m.services.ClientLedgerService

	return func() tea.Msg {
		return refreshDoneMsg{err: svc.Refresh(ctx)}
	}
}

func (m ledgerModel) cmdCreate(tx models.Transaction) tea.Cmd {
	ctx := m.ctx
	svc := m.services.ClientLedgerService

	return func() tea.Msg {
		_, err := svc.AddTransaction(ctx, tx)
		return txCreatedMsg{err: err}
	}
}

func (m ledgerModel) cmdDelete(recordUID string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.ClientLedgerService

	return func() tea.Msg {
		if strings.TrimSpace(recordUID) == "" {
			return txDeletedMsg{err: errRecordUIDNotSet}
		}
		return txDeletedMsg{err: svc.DeleteTransaction(ctx, recordUID)}
	}
}

func (m ledgerModel) cmdChangePassword(oldPassword, newPassword string) tea.Cmd {
	ctx := m.ctx
	vault := m.services.VaultService

	return func() tea.Msg {
		return pwdChangedMsg{err: vault.ChangePassword(ctx, oldPassword, newPassword)}
	}
}

func refreshErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	msg := humanizeServerUnavailableError(err)
	if msg != err.Error() {
		return "обновление не выполнено. " + msg
	}
	return fmt.Sprintf("Ошибка обновления: %v", err)
}

// parseAmount turns the typed value into minor currency units. Both comma
// and dot work as the decimal separator; at most two fractional digits.
func parseAmount(raw string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("сумма обязательна")
	}

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, fmt.Errorf("некорректная сумма")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректная сумма")
	}

	var cents int64
	if hasFrac {
		if frac == "" || len(frac) > 2 {
			return 0, fmt.Errorf("не более двух знаков после запятой")
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("некорректная сумма")
		}
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

// formatAmount renders minor units as a decimal string: -5000 -> "-50.00".
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
