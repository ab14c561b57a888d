package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/libro/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/libro/internal/app"
	"github.com/MrJamesThe3rd/libro/internal/config"
	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/logger"
)

type model struct {
	session view.Session

	currentView View

	importView view.ImportModel
	txView     view.TransactionsModel
	kpiView    view.KPIModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewImport       View = 1
	ViewTransactions View = 2
	ViewKPI          View = 3
	ViewExport       View = 4
)

func initialModel(db *database.DB, cfg *config.Config) model {
	services := app.New(cfg, db)

	ctx, cancel := view.DbCtx()
	defer cancel()

	c, err := services.Companies.Default(ctx, cfg.Company.RUT, cfg.Company.Name)
	if err != nil {
		slog.Error("failed to load company", "error", err)
		os.Exit(1)
	}

	session := view.Session{Services: services, Company: c}

	return model{
		session:     session,
		currentView: ViewMenu,
		importView:  view.NewImportModel(session),
		txView:      view.NewTransactionsModel(session),
		kpiView:     view.NewKPIModel(session),
		exportView:  view.NewExportModel(session),
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
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.session)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.txView = view.NewTransactionsModel(m.session)

				return m, m.txView.Init()
			case "3":
				m.currentView = ViewKPI
				m.kpiView = view.NewKPIModel(m.session)

				return m, m.kpiView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.session)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.txView.Update(msg)
		m.txView = newModel.(view.TransactionsModel)
	case ViewKPI:
		var newModel tea.Model
		newModel, cmd = m.kpiView.Update(msg)
		m.kpiView = newModel.(view.KPIModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewImport:
		return m.importView
	case ViewTransactions:
		return m.txView
	case ViewKPI:
		return m.kpiView
	case ViewExport:
		return m.exportView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"Libro TUI  " + lipgloss.NewStyle().Faint(true).Render(m.session.Company.Name) + "\n\n" +
				"1. Import Registry\n" +
				"2. Transactions\n" +
				"3. Indicators\n" +
				"4. Export SII Archive\n\n" +
				"q. Quit",
		)
	}

	v := m.current()
	if v == nil {
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(2).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 2, 0).Render(v.Title()),
		v.View(),
		help,
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to bubbletea, so logs go to a file.
	logFile, err := os.OpenFile("libro-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger.NewWithWriter(logFile, cfg.App.LogLevel)

	db, err := database.Open(context.Background(), cfg.DB.Driver, cfg.DataSource())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	p := tea.NewProgram(initialModel(db, cfg))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
