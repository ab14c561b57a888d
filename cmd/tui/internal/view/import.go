package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/libro/internal/importer"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFlowSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

// flowAuto lets the importer guess the flow from the file name.
const flowAuto = "auto"

type ImportModel struct {
	CommonModel

	state      importState
	form       *huh.Form
	flow       string
	filePicker filepicker.Model

	pending      *transaction.ImportResult
	conflictList list.Model

	status string
	err    error
}

func NewImportModel(session Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		CommonModel: CommonModel{Session: session},
		filePicker:  fp,
		flow:        flowAuto,
	}
	m.form = m.buildFlowForm()

	return m
}

func (m ImportModel) Title() string { return "Import Registry" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConflicts:
		return "s: skip duplicates | f: force import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) buildFlowForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("flow").
				Title("Registry Type").
				Description("Auto detects compras, ventas and honorarios from the file name").
				Options(
					huh.NewOption("Auto", flowAuto),
					huh.NewOption("Compras", string(transaction.FlowCompra)),
					huh.NewOption("Ventas", string(transaction.FlowVenta)),
					huh.NewOption("Honorarios", string(transaction.FlowHonorarios)),
				),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateConflicts {
			return m.updateConflicts(msg)
		}

	case importResultMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = importSummary(len(msg.result.Imported), msg.batch)

			return m, nil
		}

		m.pending = msg.result
		m.state = importStateConflicts
		m.conflictList = newConflictList(msg.result.Conflicts)
		m.status = fmt.Sprintf("%d new, %d already stored", len(msg.result.New), msg.result.DuplicatesFound)

		return m, nil

	case confirmResultMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.state = importStateResult
		m.pending = nil
		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		return m, nil
	}

	switch m.state {
	case importStateFlowSelect:
		return m.updateFlowSelect(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStateConflicts:
		var cmd tea.Cmd
		m.conflictList, cmd = m.conflictList.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) fail(err error) ImportModel {
	m.state = importStateResult
	m.err = err
	m.status = fmt.Sprintf("Error: %v", err)

	return m
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult, importStateConflicts:
		m.state = importStateFlowSelect
		m.pending = nil
		m.err = nil
		m.status = ""
		m.form = m.buildFlowForm()

		return m, m.form.Init()
	}

	return m, Back
}

func (m ImportModel) updateFlowSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.flow = m.form.GetString("flow")
	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		return m, m.confirmCmd(transaction.DecisionSkip)
	case "f":
		return m, m.confirmCmd(transaction.DecisionForce)
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFlowSelect:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.flow, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + m.conflictList.View(),
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	return lipgloss.NewStyle().Padding(2).Render(
		lipgloss.NewStyle().Foreground(color).Render(m.status) + "\n\n(Esc to go back)",
	)
}

func importSummary(imported int, batch *importer.BatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Imported %d transactions.", imported)

	for _, f := range batch.Files {
		fmt.Fprintf(&b, "\n  %s: %s, %s, %d rows", f.Name, f.Flow, f.Charset, f.Imported)

		if f.Skipped > 0 {
			fmt.Fprintf(&b, ", %d skipped", f.Skipped)
		}
	}

	for _, line := range transaction.SummarizeErrors(batch.Errors, transaction.ErrorSummaryLimit) {
		fmt.Fprintf(&b, "\n  %s", line)
	}

	return b.String()
}

// Messages

type importResultMsg struct {
	batch  *importer.BatchResult
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	opts := importer.Options{Strict: true}
	if m.flow != flowAuto {
		opts.Flow = transaction.FlowType(m.flow)
	}

	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		files := []importer.File{{Name: filepath.Base(path), Data: data}}

		batch, err := m.Services.Importer.ImportFiles(ctx, m.Company.ID, files, opts)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := m.Services.Importer.Store(ctx, m.Company.ID, batch.Transactions)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{batch: batch, result: result}
	}
}

func (m ImportModel) confirmCmd(decision transaction.Decision) tea.Cmd {
	pending := m.pending

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.Services.Importer.Resolve(ctx, m.Company.ID, pending, decision)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs)}
	}
}

// Conflict list

type conflictItem struct {
	conflict transaction.Conflict
}

func (i conflictItem) Title() string       { return i.conflict.Incoming.RazonSocial }
func (i conflictItem) Description() string { return i.conflict.Incoming.RUT }
func (i conflictItem) FilterValue() string { return i.conflict.Incoming.RazonSocial }

func newConflictList(conflicts []transaction.Conflict) list.Model {
	items := make([]list.Item, len(conflicts))
	for i, c := range conflicts {
		items[i] = conflictItem{conflict: c}
	}

	l := list.New(items, conflictDelegate{}, 90, 20)
	l.Title = "Already Imported"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

type conflictDelegate struct{}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming

	line1 := fmt.Sprintf("%s%s  %s  %s  %s %s",
		cursor,
		incoming.Fecha,
		FormatAmount(incoming.MontoTotal),
		incoming.RUT,
		incoming.TipoDoc,
		incoming.Folio,
	)

	line2 := ""
	if existing := item.conflict.Existing; existing != nil {
		line2 = lipgloss.NewStyle().Faint(true).Render(
			fmt.Sprintf("    stored as %s from %s", existing.RazonSocial, existing.SourceFile),
		)
	}

	if index == m.Index() {
		line1 = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(line1)
	}

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
