package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/schedule"
)

// CalendarModel shows one month of expected charges at a time.
type CalendarModel struct {
	CommonModel
	itemService *item.Service

	month       billing.Month
	forwardOnly bool
	view        *schedule.MonthView

	loading bool
	err     error
}

func NewCalendarModel(itemSvc *item.Service) CalendarModel {
	return CalendarModel{
		itemService: itemSvc,
		month:       billing.MonthOf(time.Now()),
		loading:     true,
	}
}

func (m CalendarModel) Title() string { return "Calendar" }

func (m CalendarModel) ShortHelp() string {
	return "←/→: month | t: today | f: forward only | Esc: back"
}

func (m CalendarModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCalendarMsg:
		m.loading = false
		m.err = msg.err
		m.view = msg.view

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.month = m.month.Add(-1)
		case "right", "l":
			m.month = m.month.Add(1)
		case "t":
			m.month = billing.MonthOf(time.Now())
		case "f":
			m.forwardOnly = !m.forwardOnly
		default:
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func (m CalendarModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render(m.month.First().Format("January 2006"))
	if m.forwardOnly {
		title += faintStyle.Render("  (forward only)")
	}

	var body string

	switch {
	case m.loading:
		body = "Loading..."
	case m.err != nil:
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.view == nil:
		body = ""
	case m.view.Excluded:
		body = faintStyle.Render("Past months are hidden while forward only is on.")
	default:
		body = renderMonth(*m.view)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", faintStyle.Render(m.ShortHelp())),
	)
}

func renderMonth(v schedule.MonthView) string {
	var b strings.Builder

	if len(v.Entries) == 0 {
		b.WriteString("Nothing due this month.\n")
	}

	for _, e := range v.Entries {
		day := fmt.Sprintf("%2d", e.DisplayDay)
		if e.DisplayDay != e.Day {
			day += faintStyle.Render(fmt.Sprintf(" (from %d)", e.Day))
		}

		name := e.Name
		if e.Planned {
			name += accentStyle.Render(" [planned]")
		}

		fmt.Fprintf(&b, "%-14s %-40s %10s\n", day, name, FormatAmount(e.Amount))
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", lipgloss.NewStyle().Bold(true).Render(FormatAmount(v.Total)))

	if len(v.Paused) > 0 {
		names := make([]string, len(v.Paused))
		for i, p := range v.Paused {
			names[i] = p.Name
		}

		b.WriteString(faintStyle.Render("Paused: " + strings.Join(names, ", ")))
	}

	return b.String()
}

type loadCalendarMsg struct {
	view *schedule.MonthView
	err  error
}

func (m CalendarModel) loadCmd() tea.Cmd {
	params := item.CalendarParams{From: m.month, Months: 1, ForwardOnly: m.forwardOnly}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		views, err := m.itemService.Calendar(ctx, params)
		if err != nil || len(views) == 0 {
			return loadCalendarMsg{err: err}
		}

		return loadCalendarMsg{view: &views[0]}
	}
}
