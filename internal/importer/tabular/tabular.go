// Package tabular splits delimited registry exports into a header and rows.
//
// Fields are split naively on the delimiter. Quoted fields are not
// recognised, so a delimiter inside quotes breaks the row apart.
package tabular

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SupportsQuotedFields reports whether Parse honours quoting.
const SupportsQuotedFields = false

var ErrEmpty = errors.New("file has no header line")

type Row struct {
	Line   int // 1-based line number in the source text
	Fields []string
	Raw    string
}

type Table struct {
	Delimiter rune
	Headers   []string
	Rows      []Row
}

// Parse reads text whose first non-blank line is the header.
func Parse(text string) (*Table, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	var table *Table

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if table == nil {
			delim := DetectDelimiter(line)
			table = &Table{Delimiter: delim, Headers: split(line, delim)}

			continue
		}

		table.Rows = append(table.Rows, Row{
			Line:   i + 1,
			Fields: split(line, table.Delimiter),
			Raw:    line,
		})
	}

	if table == nil {
		return nil, ErrEmpty
	}

	return table, nil
}

// DetectDelimiter picks ';' when the header has more semicolons than
// commas and ',' otherwise.
func DetectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}

	return ','
}

func split(line string, delim rune) []string {
	fields := strings.Split(line, string(delim))
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	return fields
}

// NormalizeHeader lowercases h, folds accents and drops everything that is
// not a letter or a digit: "Razón Social" becomes "razonsocial".
func NormalizeHeader(h string) string {
	folded, _, err := transform.String(accentFolder(), h)
	if err != nil {
		folded = h
	}

	var sb strings.Builder

	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// NormalizeHeaders returns a lowercased folded copy of every header.
func (t *Table) NormalizeHeaders() []string {
	out := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		out[i] = NormalizeHeader(h)
	}

	return out
}

// Cell returns the trimmed field at idx, or "" when the row is too short or
// idx is negative.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}

	return r.Fields[idx]
}

// transform.Chain keeps state, so every call gets its own.
func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
