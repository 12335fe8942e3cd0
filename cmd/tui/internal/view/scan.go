package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/recur/internal/alias"
	"github.com/MrJamesThe3rd/recur/internal/document"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/scan"
)

const scanTimeout = 2 * time.Minute

type scanState int

const (
	scanStateFilePick scanState = iota
	scanStateScanning
	scanStateReview
	scanStateResult
)

type ScanModel struct {
	CommonModel
	scanService  *scan.Service
	itemService  *item.Service
	aliasService *alias.Service

	state      scanState
	filePicker filepicker.Model
	spinner    spinner.Model
	review     ReviewModel

	status string
	err    error
}

func NewScanModel(scanSvc *scan.Service, itemSvc *item.Service, aliasSvc *alias.Service) ScanModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".pdf", ".csv", ".ofx", ".qfx", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ScanModel{
		scanService:  scanSvc,
		itemService:  itemSvc,
		aliasService: aliasSvc,
		filePicker:   fp,
		spinner:      s,
	}
}

func (m ScanModel) Title() string { return "Scan Statement" }

func (m ScanModel) ShortHelp() string {
	switch m.state {
	case scanStateReview:
		return m.review.ShortHelp()
	case scanStateScanning:
		return "Scanning..."
	}

	return "Esc: back | Enter: select"
}

func (m ScanModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && !(m.state == scanStateReview && m.review.Renaming()) {
			return m.handleEsc()
		}

	case scanResultMsg:
		if msg.err != nil {
			m.state = scanStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		rep := msg.report
		if len(rep.Entries) == 0 {
			m.state = scanStateResult
			m.status = fmt.Sprintf("No new recurring charges in %d rows. %d tracked items refreshed.", rep.Rows, rep.Refreshed)

			return m, nil
		}

		m.review = NewReviewModel(rep.Entries, m.itemService, m.aliasService)
		m.state = scanStateReview
		m.status = fmt.Sprintf("%d rows scanned, %d entries to review, %d tracked items refreshed.",
			rep.Rows, len(rep.Entries), rep.Refreshed)

		return m, m.review.Init()

	case ReviewDoneMsg:
		m.state = scanStateResult
		if msg.Err != nil {
			m.err = msg.Err
			m.status = fmt.Sprintf("Error: %v", msg.Err)

			return m, nil
		}

		m.status = summarizeConfirm(msg.Result)

		return m, nil
	}

	switch m.state {
	case scanStateFilePick:
		return m.updateFilePick(msg)
	case scanStateScanning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case scanStateReview:
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ScanModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = scanStateScanning
		m.status = fmt.Sprintf("Scanning %s...", path)

		return m, tea.Batch(m.spinner.Tick, m.scanCmd(path))
	}

	return m, cmd
}

func (m ScanModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case scanStateReview, scanStateResult:
		m.state = scanStateFilePick
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case scanStateScanning:
		return m, nil
	}

	return m, Back
}

func (m ScanModel) View() string {
	switch m.state {
	case scanStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a statement (PDF, CSV, OFX or text):\n\n" + m.filePicker.View(),
		)
	case scanStateScanning:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " " + m.status)
	case scanStateReview:
		return faintStyle.Render(m.status) + "\n" + m.review.View()
	case scanStateResult:
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

func summarizeConfirm(res *item.ConfirmResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Saved %d recurring charges.", len(res.Created))

	for _, s := range res.Skipped {
		fmt.Fprintf(&b, "\nSkipped %s: already tracked as %s (%s).",
			s.Incoming.Name, s.Existing.Name, FormatAmount(s.Existing.RawAmount))
	}

	return b.String()
}

type scanResultMsg struct {
	report *scan.Report
	err    error
}

func (m ScanModel) scanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		format, err := document.FormatOf(path)
		if err != nil {
			return scanResultMsg{err: err}
		}

		f, err := os.Open(path)
		if err != nil {
			return scanResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		defer cancel()

		rep, err := m.scanService.Scan(ctx, format, f)

		return scanResultMsg{report: rep, err: err}
	}
}
