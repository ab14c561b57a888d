package ledger

import (
	"sort"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// MonthRow is one month of the income statement derived from registry
// transactions. NetMargin is a percentage of NetSales.
type MonthRow struct {
	Month          string
	NetSales       float64
	GrossSales     float64
	NetPurchases   float64
	GrossPurchases float64
	Fees           float64
	GrossProfit    float64
	EBITDA         float64
	NetMargin      float64
}

func (r *MonthRow) derive() {
	r.GrossProfit = r.NetSales - r.NetPurchases
	r.EBITDA = r.GrossProfit - r.Fees

	r.NetMargin = 0
	if r.NetSales != 0 {
		r.NetMargin = r.EBITDA / r.NetSales * 100
	}
}

// MonthlyPnL groups txs by the YYYY-MM prefix of their fecha. Rows come
// back in ascending month order.
func MonthlyPnL(txs []*transaction.Transaction) []MonthRow {
	byMonth := make(map[string]*MonthRow)

	for _, tx := range txs {
		month := tx.Fecha
		if len(month) > 7 {
			month = month[:7]
		}

		row, ok := byMonth[month]
		if !ok {
			row = &MonthRow{Month: month}
			byMonth[month] = row
		}

		switch tx.Type {
		case transaction.FlowVenta:
			row.NetSales += tx.MontoNeto
			row.GrossSales += tx.MontoTotal
		case transaction.FlowCompra:
			row.NetPurchases += tx.MontoNeto
			row.GrossPurchases += tx.MontoTotal
		case transaction.FlowHonorarios:
			row.Fees += tx.MontoTotal
		}
	}

	rows := make([]MonthRow, 0, len(byMonth))
	for _, row := range byMonth {
		row.derive()
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })

	return rows
}

// Totals sums rows into a single row labelled "Total".
func Totals(rows []MonthRow) MonthRow {
	total := MonthRow{Month: "Total"}

	for _, r := range rows {
		total.NetSales += r.NetSales
		total.GrossSales += r.GrossSales
		total.NetPurchases += r.NetPurchases
		total.GrossPurchases += r.GrossPurchases
		total.Fees += r.Fees
	}

	total.derive()

	return total
}
