package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/libro/internal/app"
	"github.com/MrJamesThe3rd/libro/internal/company"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Session is the company the TUI works on and the services over its store.
type Session struct {
	Services *app.Services
	Company  *company.Company
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Session
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
