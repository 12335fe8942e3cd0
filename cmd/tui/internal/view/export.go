package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/recur/internal/export"
	"github.com/MrJamesThe3rd/recur/internal/item"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

// exportValues holds the form bindings; huh writes through these pointers
// so they must survive copies of the model.
type exportValues struct {
	format string
	path   string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state exportState
	err   error

	form    *huh.Form
	values  *exportValues
	spinner spinner.Model
	saved   string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	m := ExportModel{
		exportService: svc,
		state:         exportStateForm,
		values:        &exportValues{format: string(export.FormatCSV), path: "./exports"},
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Items" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(export.Format(m.values.format), m.values.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.saved = result.path

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("CSV", string(export.FormatCSV)),
					huh.NewOption("Excel (xlsx)", string(export.FormatXLSX)),
				).
				Value(&m.values.format),

			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.values.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting tracked items...", m.spinner.View()),
		)

	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")).
			Render("Export Complete!")

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", "Saved to "+m.saved),
		)
	}

	return ""
}

type exportResultMsg struct {
	path string
	err  error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(format export.Format, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(dir, format.Filename(time.Now()))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: err}
		}
		defer f.Close()

		if err := m.exportService.Items(ctx, item.ListFilter{}, format, f); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path}
	}
}
