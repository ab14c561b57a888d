package view

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// Timeframe is a preset reporting period or a custom range.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeLastYear
	TimeframeAll
	TimeframeCustom
)

var timeframes = []Timeframe{
	TimeframeThisMonth,
	TimeframeLastMonth,
	TimeframeThisYear,
	TimeframeLastYear,
	TimeframeAll,
	TimeframeCustom,
}

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeLastYear:
		return "Last Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the inclusive bounds of a preset relative to now. Periods
// that include today end today.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	year, month, _ := now.Date()
	loc := now.Location()

	switch t {
	case TimeframeThisMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc), now
	case TimeframeLastMonth:
		start := time.Date(year, month-1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, -1)
	case TimeframeThisYear:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc), now
	case TimeframeLastYear:
		return time.Date(year-1, time.January, 1, 0, 0, 0, 0, loc), time.Date(year-1, time.December, 31, 0, 0, 0, 0, loc)
	}

	return time.Time{}, time.Time{}
}

// TimeframeSelectedMsg carries inclusive YYYY-MM-DD bounds, both empty when
// All is true.
type TimeframeSelectedMsg struct {
	Start string
	End   string
	All   bool
}

// Filter narrows a transaction listing to the selected range.
func (msg TimeframeSelectedMsg) Filter() transaction.ListFilter {
	if msg.All {
		return transaction.ListFilter{}
	}

	return transaction.ListFilter{StartDate: msg.Start, EndDate: msg.End}
}

func selected(start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		return TimeframeSelectedMsg{Start: start.Format(time.DateOnly), End: end.Format(time.DateOnly)}
	}
}

// TimeframePicker asks for a preset and, for TimeframeCustom, a date range.
// Form values live behind pointers so copies of the picker share them.
type TimeframePicker struct {
	form   *huh.Form
	custom bool

	initial Timeframe
	choice  *Timeframe
	start   *string
	end     *string
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	p := TimeframePicker{
		initial: initial,
		choice:  new(initial),
		start:   new(""),
		end:     new(""),
	}
	p.form = p.presetForm()

	return p
}

func (p TimeframePicker) presetForm() *huh.Form {
	options := make([]huh.Option[Timeframe], len(timeframes))
	for i, tf := range timeframes {
		options[i] = huh.NewOption(tf.String(), tf)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Timeframe]().
				Title("Select Timeframe").
				Options(options...).
				Value(p.choice),
		),
	).WithShowHelp(false)
}

func (p TimeframePicker) rangeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(p.start).
				Validate(isoDate),
			huh.NewInput().
				Title("End Date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(p.end).
				Validate(func(s string) error {
					if err := isoDate(s); err != nil {
						return err
					}

					if s < *p.start {
						return errors.New("end date is before start date")
					}

					return nil
				}),
		),
	).WithShowHelp(false)
}

func isoDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (p TimeframePicker) Init() tea.Cmd {
	return p.form.Init()
}

func (p TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && p.custom {
		return p, p.Reset()
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State != huh.StateCompleted {
		return p, cmd
	}

	if p.custom {
		start, _ := time.Parse(time.DateOnly, *p.start)
		end, _ := time.Parse(time.DateOnly, *p.end)

		return p, selected(start, end)
	}

	switch *p.choice {
	case TimeframeCustom:
		p.custom = true
		p.form = p.rangeForm()

		return p, p.form.Init()
	case TimeframeAll:
		return p, func() tea.Msg { return TimeframeSelectedMsg{All: true} }
	}

	return p, selected(p.choice.Range(time.Now()))
}

func (p TimeframePicker) View() string {
	return p.form.View()
}

// IsSelecting reports whether the picker shows the preset list, where Esc
// belongs to the parent view.
func (p TimeframePicker) IsSelecting() bool {
	return !p.custom
}

// Reset shows the preset list again.
func (p *TimeframePicker) Reset() tea.Cmd {
	p.custom = false
	*p.choice = p.initial
	*p.start = ""
	*p.end = ""
	p.form = p.presetForm()

	return p.form.Init()
}
