package view

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

type itemsState int

const (
	itemsStateBrowse itemsState = iota
	itemsStateEdit
)

type ItemsModel struct {
	CommonModel
	itemService *item.Service

	state itemsState
	table table.Model
	items []*item.Item
	form  *huh.Form

	categories  []string
	categoryIdx int

	filter  item.ListFilter
	loading bool
	err     error
	status  string

	values *itemValues
}

// itemValues holds the edit form bindings.
type itemValues struct {
	name       string
	category   string
	amount     string
	frequency  string
	billingDay string
}

func NewItemsModel(itemSvc *item.Service) ItemsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Category", Width: 14},
		{Title: "Amount", Width: 10},
		{Title: "Frequency", Width: 10},
		{Title: "Monthly", Width: 10},
		{Title: "Next Billing", Width: 12},
		{Title: "Paused", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ItemsModel{
		itemService: itemSvc,
		table:       t,
		loading:     true,
	}
}

func (m ItemsModel) Title() string { return "Tracked Items" }

func (m ItemsModel) ShortHelp() string {
	if m.state == itemsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | p: pause this month | x: delete | c: category filter | r: refresh"
}

func (m ItemsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadItemsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.items = msg.items
		if m.filter.Category == nil {
			m.categories = categoriesOf(msg.items)
		}

		m.refreshTable()

		return m, nil

	case itemSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = itemsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case itemsStateBrowse:
		return m.updateBrowse(msg)
	case itemsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ItemsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "p":
			return m, m.togglePauseCmd()
		case "x":
			return m, m.deleteCmd()
		case "c":
			m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
			m.filter.Category = nil

			if m.categoryIdx > 0 {
				m.filter.Category = new(m.categories[m.categoryIdx-1])
			}

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ItemsModel) selected() *item.Item {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m ItemsModel) enterEditMode() (tea.Model, tea.Cmd) {
	it := m.selected()
	if it == nil {
		return m, nil
	}

	m.values = &itemValues{
		name:      it.Name,
		category:  it.Category,
		amount:    it.RawAmount.StringFixed(2),
		frequency: string(it.Frequency),
	}

	if it.BillingDay != nil {
		m.values.billingDay = strconv.Itoa(*it.BillingDay)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.values.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.values.category),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.values.amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return fmt.Errorf("amount must be a positive number")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("frequency").
				Title("Frequency").
				Options(huh.NewOptions(
					string(recurring.FrequencyMonthly),
					string(recurring.FrequencyAnnual),
					string(recurring.FrequencyWeekly),
					string(recurring.FrequencyUnknown),
				)...).
				Value(&m.values.frequency),

			huh.NewInput().
				Key("billing_day").
				Title("Billing Day").
				Placeholder("1-31, empty to infer").
				Value(&m.values.billingDay).
				Validate(validateBillingDay),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = itemsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func validateBillingDay(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return fmt.Errorf("billing day must be between 1 and 31")
	}

	return nil
}

func (m ItemsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = itemsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ItemsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading items...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	category := "All"
	if m.filter.Category != nil {
		category = *m.filter.Category
	}

	monthly, annual := item.Totals(m.items)

	header := fmt.Sprintf(
		"Filter: [c] Category: %s | Monthly: %s | Annual: %s",
		activeStyle(category),
		activeStyle(FormatAmount(monthly)),
		activeStyle(FormatAmount(annual)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == itemsStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Edit Item\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func categoriesOf(items []*item.Item) []string {
	var out []string

	for _, it := range items {
		if !slices.Contains(out, it.Category) {
			out = append(out, it.Category)
		}
	}

	slices.Sort(out)

	return out
}

func (m *ItemsModel) refreshTable() {
	current := billing.MonthOf(time.Now())

	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		paused := ""
		if it.PausedUntil != nil && billing.MonthOf(*it.PausedUntil) == current {
			paused = "yes"
		}

		rows = append(rows, table.Row{
			it.Name,
			it.Category,
			FormatAmount(it.RawAmount),
			string(it.Frequency),
			FormatAmount(it.MonthlyCost()),
			FormatDate(it.NextBillingDate),
			paused,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadItemsMsg struct {
	items []*item.Item
	err   error
}

func (m ItemsModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.itemService.List(ctx, filter)

		return loadItemsMsg{items: items, err: err}
	}
}

type itemSavedMsg struct {
	status string
	err    error
}

func (m ItemsModel) saveCmd() tea.Cmd {
	it := m.selected()
	if it == nil {
		return nil
	}

	updated := *it
	updated.Name = strings.TrimSpace(m.values.name)
	updated.Category = strings.TrimSpace(m.values.category)
	updated.RawAmount, _ = decimal.NewFromString(strings.TrimSpace(m.values.amount))
	updated.Frequency = recurring.Frequency(m.values.frequency)
	updated.BillingDay = nil

	if day, err := strconv.Atoi(strings.TrimSpace(m.values.billingDay)); err == nil {
		updated.BillingDay = &day
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.itemService.Update(ctx, &updated); err != nil {
			return itemSavedMsg{err: err}
		}

		return itemSavedMsg{status: fmt.Sprintf("Saved %s.", updated.Name)}
	}
}

// togglePauseCmd pauses the selected item for the current month, or lifts
// an existing pause.
func (m ItemsModel) togglePauseCmd() tea.Cmd {
	it := m.selected()
	if it == nil {
		return nil
	}

	current := billing.MonthOf(time.Now())

	var until *time.Time
	if it.PausedUntil == nil || billing.MonthOf(*it.PausedUntil) != current {
		until = new(current.Last())
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.itemService.Pause(ctx, it.ID, until); err != nil {
			return itemSavedMsg{err: err}
		}

		if until == nil {
			return itemSavedMsg{status: fmt.Sprintf("Resumed %s.", it.Name)}
		}

		return itemSavedMsg{status: fmt.Sprintf("Paused %s for %s.", it.Name, current)}
	}
}

func (m ItemsModel) deleteCmd() tea.Cmd {
	it := m.selected()
	if it == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.itemService.Delete(ctx, it.ID); err != nil {
			return itemSavedMsg{err: err}
		}

		return itemSavedMsg{status: fmt.Sprintf("Deleted %s.", it.Name)}
	}
}
