package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/recur/internal/alias"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

var frequencyCycle = []recurring.Frequency{
	recurring.FrequencyMonthly,
	recurring.FrequencyAnnual,
	recurring.FrequencyWeekly,
	recurring.FrequencyUnknown,
}

func nextFrequency(f recurring.Frequency) recurring.Frequency {
	for i, c := range frequencyCycle {
		if c == f {
			return frequencyCycle[(i+1)%len(frequencyCycle)]
		}
	}

	return frequencyCycle[0]
}

// ReviewModel lets the user pick, rename and re-frequency scanned entries
// before they are saved as tracked items.
type ReviewModel struct {
	CommonModel
	itemService  *item.Service
	aliasService *alias.Service

	list     list.Model
	renaming bool
	input    textinput.Model
	status   string
}

// ReviewDoneMsg is sent once the reviewed entries have been confirmed.
type ReviewDoneMsg struct {
	Result *item.ConfirmResult
	Err    error
}

func NewReviewModel(entries []recurring.ReviewEntry, itemSvc *item.Service, aliasSvc *alias.Service) ReviewModel {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		// Known-service detections start selected; candidates need an opt-in.
		items[i] = reviewItem{entry: e, original: e.Name, selected: e.Source == recurring.SourceParsed}
	}

	l := list.New(items, reviewDelegate{}, 80, 20)
	l.Title = "Review Recurring Charges"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "Name"
	ti.Width = 50

	return ReviewModel{
		itemService:  itemSvc,
		aliasService: aliasSvc,
		list:         l,
		input:        ti,
	}
}

func (m ReviewModel) ShortHelp() string {
	if m.renaming {
		return "Enter: save name | Esc: cancel"
	}

	return "Space: toggle | a: all | n: none | f: frequency | r: rename | Enter: confirm | Esc: cancel"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (ReviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case aliasLearnedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Alias not saved: %v", msg.err)
		}

		return m, nil

	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}

		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ReviewModel) updateKeys(msg tea.KeyMsg) (ReviewModel, tea.Cmd) {
	switch msg.String() {
	case " ":
		return m.modify(func(it *reviewItem) { it.selected = !it.selected })
	case "f":
		return m.modify(func(it *reviewItem) {
			it.entry.Frequency = nextFrequency(it.entry.Frequency)
			it.entry.MonthlyCost = recurring.MonthlyCost(it.entry.Cost, it.entry.Frequency)
			it.entry.NeedsFrequency = it.entry.Frequency == recurring.FrequencyUnknown
		})
	case "a", "n":
		selected := msg.String() == "a"
		for i, li := range m.list.Items() {
			it := li.(reviewItem)
			it.selected = selected
			m.list.SetItem(i, it)
		}

		return m, nil
	case "r":
		it, ok := m.list.SelectedItem().(reviewItem)
		if !ok {
			return m, nil
		}

		m.renaming = true
		m.input.SetValue(it.entry.Name)

		return m, m.input.Focus()
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ReviewModel) updateRename(msg tea.KeyMsg) (ReviewModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.renaming = false
		m.input.Blur()

		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		m.renaming = false
		m.input.Blur()

		it, ok := m.list.SelectedItem().(reviewItem)
		if !ok || name == "" || name == it.entry.Name {
			return m, nil
		}

		it.entry.Name = name
		m.list.SetItem(m.list.Index(), it)

		return m, m.learnCmd(it.original, name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ReviewModel) modify(fn func(*reviewItem)) (ReviewModel, tea.Cmd) {
	it, ok := m.list.SelectedItem().(reviewItem)
	if !ok {
		return m, nil
	}

	fn(&it)
	cmd := m.list.SetItem(m.list.Index(), it)

	return m, cmd
}

// Renaming reports whether the rename input has focus.
func (m ReviewModel) Renaming() bool {
	return m.renaming
}

func (m ReviewModel) View() string {
	content := m.list.View()

	if m.renaming {
		content += "\n\nRename:\n" + m.input.View()
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

type aliasLearnedMsg struct {
	err error
}

// learnCmd remembers a rename so later scans apply it automatically.
func (m ReviewModel) learnCmd(pattern, name string) tea.Cmd {
	if m.aliasService == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return aliasLearnedMsg{err: m.aliasService.Learn(ctx, pattern, name)}
	}
}

func (m ReviewModel) confirmCmd() tea.Cmd {
	var params []item.CreateParams

	for _, li := range m.list.Items() {
		it := li.(reviewItem)
		if it.selected {
			params = append(params, item.ParamsFromResult(it.entry.ParsedResult))
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		defer cancel()

		res, err := m.itemService.Confirm(ctx, params)

		return ReviewDoneMsg{Result: res, Err: err}
	}
}

type reviewItem struct {
	entry    recurring.ReviewEntry
	original string
	selected bool
}

func (i reviewItem) FilterValue() string { return i.entry.Name }

type reviewDelegate struct{}

func (d reviewDelegate) Height() int                             { return 2 }
func (d reviewDelegate) Spacing() int                            { return 0 }
func (d reviewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d reviewDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(reviewItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if it.selected {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	frequency := string(it.entry.Frequency)
	if it.entry.NeedsFrequency {
		frequency = accentStyle.Render(frequency + "?")
	}

	line1 := fmt.Sprintf("%s%s %-32s %10s  %s",
		cursor, checkbox,
		it.entry.Name,
		FormatAmount(it.entry.Cost),
		frequency,
	)

	detail := fmt.Sprintf("%s, %s/month", it.entry.Source, FormatAmount(it.entry.MonthlyCost))
	if it.entry.LastUsed != "" {
		detail += ", last " + it.entry.LastUsed
	}

	fmt.Fprintf(w, "%s\n      %s\n", line1, faintStyle.Render(detail))
}
