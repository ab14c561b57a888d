package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/libro/internal/kpi"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type kpiState int

const (
	kpiStateTimeframe kpiState = iota
	kpiStateLoading
	kpiStateReport
)

type KPIModel struct {
	CommonModel

	state           kpiState
	timeframePicker TimeframePicker
	table           table.Model

	stats kpi.Stats
	total ledger.MonthRow
	err   error
}

func NewKPIModel(session Session) KPIModel {
	columns := []table.Column{
		{Title: "Month", Width: 8},
		{Title: "Ventas Neto", Width: 16},
		{Title: "Compras Neto", Width: 16},
		{Title: "Honorarios", Width: 14},
		{Title: "EBITDA", Width: 16},
		{Title: "Margin", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	return KPIModel{
		CommonModel:     CommonModel{Session: session},
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		table:           t,
	}
}

func (m KPIModel) Title() string { return "Indicators" }

func (m KPIModel) ShortHelp() string {
	if m.state == kpiStateReport {
		return "Esc: change timeframe"
	}

	return "Esc: back | Enter: select"
}

func (m KPIModel) Init() tea.Cmd {
	return m.timeframePicker.Init()
}

func (m KPIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = kpiStateLoading
		return m, m.loadCmd(msg.Filter())

	case kpiLoadedMsg:
		m.state = kpiStateReport
		m.err = msg.err

		if msg.err == nil {
			m.stats = kpi.Aggregate(msg.txs)
			months := ledger.MonthlyPnL(msg.txs)
			m.total = ledger.Totals(months)
			m.table.SetRows(pnlRows(months))
		}

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == kpiStateReport {
				m.state = kpiStateTimeframe
				return m, m.timeframePicker.Reset()
			}

			if m.timeframePicker.IsSelecting() {
				return m, Back
			}
		}
	}

	var cmd tea.Cmd

	switch m.state {
	case kpiStateTimeframe:
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	case kpiStateReport:
		m.table, cmd = m.table.Update(msg)
	}

	return m, cmd
}

func pnlRows(months []ledger.MonthRow) []table.Row {
	rows := make([]table.Row, 0, len(months))
	for _, r := range months {
		rows = append(rows, table.Row{
			r.Month,
			FormatAmount(r.NetSales),
			FormatAmount(r.NetPurchases),
			FormatAmount(r.Fees),
			FormatAmount(r.EBITDA),
			fmt.Sprintf("%.1f%%", r.NetMargin),
		})
	}

	return rows
}

func (m KPIModel) View() string {
	switch m.state {
	case kpiStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	case kpiStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading indicators...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	label := lipgloss.NewStyle().Faint(true)

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", label.Render("Ventas:    "), FormatAmount(m.stats.TotalSales))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Compras:   "), FormatAmount(m.stats.TotalPurchases))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Honorarios:"), FormatAmount(m.stats.TotalFees))
	fmt.Fprintf(&b, "%s %d\n", label.Render("Documents: "), m.stats.Count)

	if top := m.stats.TopProvider; top != nil {
		fmt.Fprintf(&b, "%s %s (%s)\n", label.Render("Top entity:"), top.Name, FormatAmount(top.Amount))
	}

	fmt.Fprintf(&b, "\nEBITDA %s, margin %.1f%%\n", activeStyle(FormatAmount(m.total.EBITDA)), m.total.NetMargin)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, b.String(), tableView),
	)
}

type kpiLoadedMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m KPIModel) loadCmd(filter transaction.ListFilter) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.Services.Transactions.List(ctx, m.Company.ID, filter)

		return kpiLoadedMsg{txs: txs, err: err}
	}
}
