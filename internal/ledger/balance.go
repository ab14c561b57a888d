package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BalanceRow is one line of the 8-column balance.
type BalanceRow struct {
	Code     string
	Name     string
	Type     AccountType
	Debits   float64
	Credits  float64
	Debtor   float64
	Creditor float64
	Activo   float64
	Pasivo   float64
	Perdida  float64
	Ganancia float64
}

type Balance struct {
	Rows   []BalanceRow
	Totals BalanceRow
	// Result is Ganancia minus Perdida; positive means profit.
	Result float64
}

// TrialBalance rolls voucher entries up per account code. Vouchers are
// assumed to balance; nothing here checks that debits equal credits.
func TrialBalance(vouchers []*Voucher, accounts []Account) Balance {
	chart := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		chart[a.Code] = a
	}

	type sums struct{ debe, haber decimal.Decimal }

	byCode := make(map[string]*sums)

	for _, v := range vouchers {
		for _, e := range v.Entries {
			s, ok := byCode[e.AccountCode]
			if !ok {
				s = &sums{}
				byCode[e.AccountCode] = s
			}

			s.debe = s.debe.Add(decimal.NewFromFloat(e.Debe))
			s.haber = s.haber.Add(decimal.NewFromFloat(e.Haber))
		}
	}

	var (
		bal                  Balance
		totDebe, totHaber    decimal.Decimal
		totDebtor, totCredit decimal.Decimal
		totAct, totPas       decimal.Decimal
		totPer, totGan       decimal.Decimal
	)

	for code, s := range byCode {
		account, ok := chart[code]
		if !ok {
			account = Account{Code: code, Name: code, Type: TypeForCode(code)}
		}

		diff := s.debe.Sub(s.haber)
		debtor := decimal.Max(diff, decimal.Zero)
		creditor := decimal.Max(diff.Neg(), decimal.Zero)

		row := BalanceRow{
			Code:     code,
			Name:     account.Name,
			Type:     account.Type,
			Debits:   s.debe.InexactFloat64(),
			Credits:  s.haber.InexactFloat64(),
			Debtor:   debtor.InexactFloat64(),
			Creditor: creditor.InexactFloat64(),
		}

		if account.Type.IsResult() {
			row.Perdida, row.Ganancia = row.Debtor, row.Creditor
			totPer = totPer.Add(debtor)
			totGan = totGan.Add(creditor)
		} else {
			row.Activo, row.Pasivo = row.Debtor, row.Creditor
			totAct = totAct.Add(debtor)
			totPas = totPas.Add(creditor)
		}

		totDebe = totDebe.Add(s.debe)
		totHaber = totHaber.Add(s.haber)
		totDebtor = totDebtor.Add(debtor)
		totCredit = totCredit.Add(creditor)

		bal.Rows = append(bal.Rows, row)
	}

	sort.Slice(bal.Rows, func(i, j int) bool { return bal.Rows[i].Code < bal.Rows[j].Code })

	bal.Totals = BalanceRow{
		Name:     "Totales",
		Debits:   totDebe.InexactFloat64(),
		Credits:  totHaber.InexactFloat64(),
		Debtor:   totDebtor.InexactFloat64(),
		Creditor: totCredit.InexactFloat64(),
		Activo:   totAct.InexactFloat64(),
		Pasivo:   totPas.InexactFloat64(),
		Perdida:  totPer.InexactFloat64(),
		Ganancia: totGan.InexactFloat64(),
	}
	bal.Result = totGan.Sub(totPer).InexactFloat64()

	if bal.Rows == nil {
		bal.Rows = []BalanceRow{}
	}

	return bal
}
