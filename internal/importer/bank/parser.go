// Package bank reads bank statement exports into statement lines for
// reconciliation.
package bank

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/libro/internal/importer/normalize"
	"github.com/MrJamesThe3rd/libro/internal/importer/tabular"
	"github.com/MrJamesThe3rd/libro/internal/reconcile"
)

var ErrUnknownFormat = errors.New("no matching bank statement format found")

// Parser auto-detects the statement layout by matching a header line
// against the known profiles. Statements usually open with a preamble
// (account holder, period, balances), so the header can be any line.
type Parser struct {
	normalizer normalize.Normalizer
}

func NewParser() *Parser {
	return &Parser{normalizer: normalize.New()}
}

func (p *Parser) Parse(text string) ([]reconcile.BankLine, error) {
	lines := strings.Split(strings.TrimPrefix(text, "\uFEFF"), "\n")

	profile, cols, delim, headerIdx := detectProfile(lines)
	if profile == nil {
		return nil, fmt.Errorf("%w: expected fecha, descripción or glosa, and monto or cargos/abonos", ErrUnknownFormat)
	}

	return p.parseRows(profile, cols, delim, lines[headerIdx+1:], headerIdx+1)
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

func detectProfile(lines []string) (*Profile, colIndex, rune, int) {
	for lineIdx, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		delim := tabular.DetectDelimiter(line)
		cols := make(colIndex)

		for i, cell := range strings.Split(line, string(delim)) {
			name := tabular.NormalizeHeader(cell)
			if _, seen := cols[name]; name != "" && !seen {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, delim, lineIdx
			}
		}
	}

	return nil, nil, 0, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows reads the lines after the header. Rows without a usable date
// (totals, footers) are skipped; a dated row without description is an error.
func (p *Parser) parseRows(prof *Profile, cols colIndex, delim rune, lines []string, headerRowNum int) ([]reconcile.BankLine, error) {
	dateIdx := cols[prof.DateCol]
	descIdx := cols[prof.DescCol]

	var out []reconcile.BankLine

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rowNum := headerRowNum + i + 1
		row := tabular.Row{Line: rowNum, Fields: splitTrim(line, delim), Raw: line}

		fecha, ok := p.parseDate(row.Cell(dateIdx))
		if !ok {
			continue
		}

		desc := row.Cell(descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		monto, ok := parseAmount(prof, cols, row)
		if !ok {
			continue
		}

		out = append(out, reconcile.BankLine{Fecha: fecha, Descripcion: desc, Monto: monto})
	}

	return out, nil
}

// parseDate accepts DD/MM/YYYY, DD-MM-YYYY and ISO dates.
func (p *Parser) parseDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	if len(s) == 10 && s[2] == '-' && s[5] == '-' {
		s = strings.ReplaceAll(s, "-", "/")
	}

	iso := p.normalizer.Date(s)
	if _, err := time.Parse(time.DateOnly, iso); err != nil {
		return "", false
	}

	return iso, true
}

func parseAmount(p *Profile, cols colIndex, row tabular.Row) (float64, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row.Cell(cols[p.AmountCol]))
	case amountSplit:
		return parseSplitAmount(row.Cell(cols[p.DebitCol]), row.Cell(cols[p.CreditCol]))
	}

	return 0, false
}

func parseSingleAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	v, err := normalize.ParseNumber(s)
	if err != nil || v == 0 {
		return 0, false
	}

	return v, true
}

// parseSplitAmount reads cargos as withdrawals and abonos as deposits.
func parseSplitAmount(debit, credit string) (float64, bool) {
	if debit != "" {
		v, err := normalize.ParseNumber(debit)
		if err == nil && v != 0 {
			return -abs(v), true
		}
	}

	if credit != "" {
		v, err := normalize.ParseNumber(credit)
		if err == nil && v != 0 {
			return abs(v), true
		}
	}

	return 0, false
}

func splitTrim(line string, delim rune) []string {
	fields := strings.Split(line, string(delim))
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	return fields
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
