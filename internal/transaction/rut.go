package transaction

import "strings"

// NormalizeRUT uppercases a manually typed RUT and strips dots, spaces and
// dashes, re-inserting a single dash before the check digit.
// "76.543.210-k" becomes "76543210-K". Empty input yields UnknownRUT.
func NormalizeRUT(raw string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', ' ', '\t':
			return -1
		}

		return r
	}, strings.ToUpper(strings.TrimSpace(raw)))

	if clean == "" {
		return UnknownRUT
	}

	if len(clean) < 2 {
		return clean
	}

	return clean[:len(clean)-1] + "-" + clean[len(clean)-1:]
}
