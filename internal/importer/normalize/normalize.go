// Package normalize converts registry cells into canonical dates and amounts.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Normalizer struct {
	Now func() time.Time
}

func New() Normalizer {
	return Normalizer{Now: time.Now}
}

func (n Normalizer) today() string {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	return now().Format(time.DateOnly)
}

// Date turns D/M/YYYY into YYYY-MM-DD. Empty input yields today's date and
// any other layout is returned unchanged.
func (n Normalizer) Date(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return n.today()
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}

	day, month, year := parts[0], parts[1], parts[2]
	if !digits(day, 1, 2) || !digits(month, 1, 2) || !digits(year, 4, 4) {
		return s
	}

	return year + "-" + pad(month) + "-" + pad(day)
}

func digits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func pad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}

	return s
}

// ParseNumber reads a locale formatted amount: dots are thousands
// separators and the comma is the decimal mark. Empty input is 0.
func ParseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	return d.InexactFloat64(), nil
}

// Number is ParseNumber with failures read as 0.
func Number(raw string) float64 {
	v, err := ParseNumber(raw)
	if err != nil {
		return 0
	}

	return v
}
