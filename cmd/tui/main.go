package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/recur/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/recur/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/recur/internal/alias/store"
	"github.com/MrJamesThe3rd/recur/internal/config"
	"github.com/MrJamesThe3rd/recur/internal/database"
	"github.com/MrJamesThe3rd/recur/internal/document"
	"github.com/MrJamesThe3rd/recur/internal/export"
	"github.com/MrJamesThe3rd/recur/internal/item"
	itemStore "github.com/MrJamesThe3rd/recur/internal/item/store"
	"github.com/MrJamesThe3rd/recur/internal/scan"
)

type model struct {
	scanService   *scan.Service
	itemService   *item.Service
	aliasService  *alias.Service
	exportService *export.Service

	currentView View

	scanView     view.ScanModel
	itemsView    view.ItemsModel
	calendarView view.CalendarModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewScan     View = 1
	ViewItems    View = 2
	ViewCalendar View = 3
	ViewExport   View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(context.Background(), cfg.DatabaseOptions())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	aliasSvc := alias.NewService(aliasStore.New(db))
	itemSvc := item.NewService(itemStore.New(db), item.WithAliases(aliasSvc))
	docSvc := document.NewService(cfg.Extraction.PDFToText, cfg.Extraction.Timeout)
	scanSvc := scan.NewService(docSvc, engine, itemSvc, scan.WithAliases(aliasSvc))
	expSvc := export.NewService(itemSvc)

	return model{
		scanService:   scanSvc,
		itemService:   itemSvc,
		aliasService:  aliasSvc,
		exportService: expSvc,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewScan
				m.scanView = view.NewScanModel(m.scanService, m.itemService, m.aliasService)

				return m, m.scanView.Init()
			case "2":
				m.currentView = ViewItems
				m.itemsView = view.NewItemsModel(m.itemService)

				return m, m.itemsView.Init()
			case "3":
				m.currentView = ViewCalendar
				m.calendarView = view.NewCalendarModel(m.itemService)

				return m, m.calendarView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewScan:
		var newModel tea.Model
		newModel, cmd = m.scanView.Update(msg)
		m.scanView = newModel.(view.ScanModel)
	case ViewItems:
		var newModel tea.Model
		newModel, cmd = m.itemsView.Update(msg)
		m.itemsView = newModel.(view.ItemsModel)
	case ViewCalendar:
		var newModel tea.Model
		newModel, cmd = m.calendarView.Update(msg)
		m.calendarView = newModel.(view.CalendarModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Recur\n\n" +
				"1. Scan Statement\n" +
				"2. Tracked Items\n" +
				"3. Calendar\n" +
				"4. Export Items\n\n" +
				"q. Quit",
		)
	case ViewScan:
		return m.scanView.View()
	case ViewItems:
		return m.itemsView.View()
	case ViewCalendar:
		return m.calendarView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
