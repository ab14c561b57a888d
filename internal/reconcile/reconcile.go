// Package reconcile matches bank statement lines against the movements
// booked on the bank account.
package reconcile

import (
	"math"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/ledger"
)

// Tolerance is the largest absolute amount difference, exclusive, that
// still counts as a match.
const Tolerance = 1.0

// BankLine is one statement line. Monto is positive for deposits.
type BankLine struct {
	Fecha       string
	Descripcion string
	Monto       float64
}

// Movement is one voucher entry on the bank account with Amount = Debe − Haber.
type Movement struct {
	VoucherID uuid.UUID
	Fecha     string
	Glosa     string
	Amount    float64
}

// Movements lists every entry booked on bankAccount in voucher order.
func Movements(vouchers []*ledger.Voucher, bankAccount string) []Movement {
	var out []Movement

	for _, v := range vouchers {
		for _, e := range v.Entries {
			if e.AccountCode != bankAccount {
				continue
			}

			glosa := e.Glosa
			if glosa == "" {
				glosa = v.Glosa
			}

			out = append(out, Movement{
				VoucherID: v.ID,
				Fecha:     v.Fecha,
				Glosa:     glosa,
				Amount:    e.Debe - e.Haber,
			})
		}
	}

	return out
}

type Line struct {
	BankLine
	Matched  bool
	Movement *Movement
}

type Result struct {
	Lines     []Line
	Matched   int
	Unmatched int
	BankTotal float64
	BookTotal float64
}

// Match pairs each line with the first movement on the same date whose
// amount is within Tolerance. Movements are not consumed, so two identical
// lines may pair with the same movement; ambiguous candidates are not
// reported.
func Match(lines []BankLine, movements []Movement) Result {
	res := Result{Lines: make([]Line, 0, len(lines))}

	for _, m := range movements {
		res.BookTotal += m.Amount
	}

	for _, bl := range lines {
		res.BankTotal += bl.Monto

		line := Line{BankLine: bl}

		for i := range movements {
			m := &movements[i]
			if m.Fecha == bl.Fecha && math.Abs(m.Amount-bl.Monto) < Tolerance {
				line.Matched = true
				line.Movement = m

				break
			}
		}

		if line.Matched {
			res.Matched++
		} else {
			res.Unmatched++
		}

		res.Lines = append(res.Lines, line)
	}

	return res
}
