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

	"github.com/MrJamesThe3rd/libro/internal/export"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

const exportTimeout = 2 * time.Minute

type exportStep int

const (
	exportStepTimeframe exportStep = iota
	exportStepOptions
	exportStepWriting
	exportStepDone
)

const (
	formatArchive = "zip"
	formatCSV     = "csv"
)

// exportOptions are bound to the options form.
type exportOptions struct {
	format string
	flow   string
	dir    string
}

type ExportModel struct {
	CommonModel

	step      exportStep
	picker    TimeframePicker
	timeframe TimeframeSelectedMsg
	options   *exportOptions
	form      *huh.Form
	spinner   spinner.Model

	summary string
	err     error
}

func NewExportModel(session Session) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		CommonModel: CommonModel{Session: session},
		picker:      NewTimeframePicker(TimeframeLastMonth),
		spinner:     s,
	}
}

func (m ExportModel) Title() string { return "Export SII Registry" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportStepWriting:
		return "Writing..."
	case exportStepDone:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ExportModel) optionsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("Zip archive, one file per flow and a summary", formatArchive),
					huh.NewOption("Single CSV", formatCSV),
				).
				Value(&m.options.format),
			huh.NewSelect[string]().
				Title("Flow").
				Description("Single CSV only").
				Options(
					huh.NewOption("All", ""),
					huh.NewOption("Compras", string(transaction.FlowCompra)),
					huh.NewOption("Ventas", string(transaction.FlowVenta)),
					huh.NewOption("Honorarios", string(transaction.FlowHonorarios)),
				).
				Value(&m.options.flow),
			huh.NewInput().
				Title("Output Directory").
				Description("Created if it doesn't exist").
				Value(&m.options.dir),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.options = &exportOptions{format: formatArchive, dir: "./exports"}
		m.form = m.optionsForm()
		m.step = exportStepOptions

		return m, m.form.Init()

	case exportDoneMsg:
		m.step = exportStepDone
		m.summary = msg.summary
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.back()
		}
	}

	switch m.step {
	case exportStepTimeframe:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case exportStepOptions:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.step = exportStepWriting
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.writeCmd(*m.options))

	case exportStepWriting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ExportModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case exportStepTimeframe:
		if !m.picker.IsSelecting() {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(tea.KeyMsg{Type: tea.KeyEsc})

			return m, cmd
		}
	case exportStepOptions:
		m.step = exportStepTimeframe
		return m, m.picker.Reset()
	case exportStepWriting:
		return m, nil
	}

	return m, Back
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportStepTimeframe:
		return pad.Render(m.picker.View())
	case exportStepOptions:
		return pad.Render(m.form.View())
	case exportStepWriting:
		return pad.Render(fmt.Sprintf("%s Writing registry files...", m.spinner.View()))
	}

	if m.err != nil {
		return pad.Render(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export Complete!"),
		"",
		m.summary,
	))
}

type exportDoneMsg struct {
	summary string
	err     error
}

// exportFileName labels the output with the exported range.
func exportFileName(tf TimeframeSelectedMsg, format, flow string) string {
	period := "completo"
	if !tf.All {
		period = tf.Start + "_" + tf.End
	}

	if format == formatArchive {
		return fmt.Sprintf("libro_%s.zip", period)
	}

	if flow == "" {
		flow = "todos"
	}

	return fmt.Sprintf("libro_%s_%s.csv", flow, period)
}

func (m ExportModel) writeCmd(opts exportOptions) tea.Cmd {
	tf := m.timeframe

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(opts.dir, 0o755); err != nil {
			return exportDoneMsg{err: fmt.Errorf("create output directory: %w", err)}
		}

		filter := tf.Filter()
		if opts.format == formatCSV && opts.flow != "" {
			filter.Type = new(transaction.FlowType(opts.flow))
		}

		path := filepath.Join(opts.dir, exportFileName(tf, opts.format, opts.flow))

		summary, err := m.write(ctx, path, opts.format, filter)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{summary: fmt.Sprintf("Wrote %s\n\n%s", path, summary)}
	}
}

func (m ExportModel) write(ctx context.Context, path, format string, filter transaction.ListFilter) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if format == formatArchive {
		if err := m.Services.Export.Archive(ctx, m.Company.ID, filter, f); err != nil {
			return "", err
		}
	} else if _, err := m.Services.Export.Export(ctx, m.Company.ID, filter, f); err != nil {
		return "", err
	}

	txs, err := m.Services.Transactions.List(ctx, m.Company.ID, filter)
	if err != nil {
		return "", err
	}

	return export.Summary(txs), nil
}
