package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/libro/internal/ledger"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

func TestTypeForCode(t *testing.T) {
	tests := map[string]ledger.AccountType{
		"1.01.01": ledger.Activo,
		"2.01.01": ledger.Pasivo,
		"3.01.01": ledger.Patrimonio,
		"4.01.01": ledger.Ganancia,
		"5.01.01": ledger.Perdida,
		"9":       ledger.Perdida,
		"":        ledger.Perdida,
		" 1.02":   ledger.Activo,
	}

	for code, want := range tests {
		assert.Equal(t, want, ledger.TypeForCode(code), code)
	}
}

func tx(flow transaction.FlowType, fecha string, neto, total float64) *transaction.Transaction {
	return &transaction.Transaction{Type: flow, Fecha: fecha, MontoNeto: neto, MontoTotal: total}
}

func TestMonthlyPnL(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.FlowVenta, "2024-02-10", 1000, 1190),
		tx(transaction.FlowCompra, "2024-01-05", 400, 476),
		tx(transaction.FlowVenta, "2024-01-20", 2000, 2380),
		tx(transaction.FlowHonorarios, "2024-01-31", 0, 300),
		tx(transaction.FlowCompra, "2024-02-01", 1500, 1785),
	}

	rows := ledger.MonthlyPnL(txs)
	require.Len(t, rows, 2)

	jan := rows[0]
	assert.Equal(t, "2024-01", jan.Month)
	assert.InDelta(t, 2000.0, jan.NetSales, 0.001)
	assert.InDelta(t, 2380.0, jan.GrossSales, 0.001)
	assert.InDelta(t, 400.0, jan.NetPurchases, 0.001)
	assert.InDelta(t, 476.0, jan.GrossPurchases, 0.001)
	assert.InDelta(t, 300.0, jan.Fees, 0.001)
	assert.InDelta(t, 1600.0, jan.GrossProfit, 0.001)
	assert.InDelta(t, 1300.0, jan.EBITDA, 0.001)
	assert.InDelta(t, 65.0, jan.NetMargin, 0.001)

	feb := rows[1]
	assert.Equal(t, "2024-02", feb.Month)
	assert.InDelta(t, -500.0, feb.EBITDA, 0.001)
	assert.InDelta(t, -50.0, feb.NetMargin, 0.001)

	total := ledger.Totals(rows)
	assert.Equal(t, "Total", total.Month)
	assert.InDelta(t, 3000.0, total.NetSales, 0.001)
	assert.InDelta(t, 800.0, total.EBITDA, 0.001)
}

func TestMonthlyPnL_NoSalesHasZeroMargin(t *testing.T) {
	rows := ledger.MonthlyPnL([]*transaction.Transaction{tx(transaction.FlowCompra, "2024-03-01", 100, 119)})
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].NetMargin)
	assert.InDelta(t, -100.0, rows[0].EBITDA, 0.001)

	assert.Empty(t, ledger.MonthlyPnL(nil))
}

func voucher(entries ...ledger.Entry) *ledger.Voucher {
	return &ledger.Voucher{Fecha: "2024-01-01", Entries: entries}
}

func TestTrialBalance(t *testing.T) {
	accounts := []ledger.Account{
		{Code: "1.01.01", Name: "Banco", Type: ledger.Activo},
		{Code: "2.01.01", Name: "Proveedores", Type: ledger.Pasivo},
		{Code: "4.01.01", Name: "Ventas", Type: ledger.Ganancia},
		{Code: "5.01.01", Name: "Costo de Ventas", Type: ledger.Perdida},
	}

	vouchers := []*ledger.Voucher{
		voucher(
			ledger.Entry{AccountCode: "1.01.01", Debe: 1000.10},
			ledger.Entry{AccountCode: "4.01.01", Haber: 1000.10},
		),
		voucher(
			ledger.Entry{AccountCode: "5.01.01", Debe: 300.20},
			ledger.Entry{AccountCode: "2.01.01", Haber: 300.20},
		),
		voucher(
			ledger.Entry{AccountCode: "2.01.01", Debe: 100},
			ledger.Entry{AccountCode: "1.01.01", Haber: 100},
		),
		voucher(
			ledger.Entry{AccountCode: "6.99", Debe: 50},
			ledger.Entry{AccountCode: "1.01.01", Haber: 50},
		),
	}

	bal := ledger.TrialBalance(vouchers, accounts)
	require.Len(t, bal.Rows, 5)

	codes := make([]string, len(bal.Rows))
	for i, r := range bal.Rows {
		codes[i] = r.Code
	}

	assert.Equal(t, []string{"1.01.01", "2.01.01", "4.01.01", "5.01.01", "6.99"}, codes)

	bank := bal.Rows[0]
	assert.Equal(t, "Banco", bank.Name)
	assert.InDelta(t, 1000.10, bank.Debits, 1e-9)
	assert.InDelta(t, 150.0, bank.Credits, 1e-9)
	assert.InDelta(t, 850.10, bank.Debtor, 1e-9)
	assert.Zero(t, bank.Creditor)
	assert.InDelta(t, 850.10, bank.Activo, 1e-9)

	suppliers := bal.Rows[1]
	assert.InDelta(t, 200.20, suppliers.Creditor, 1e-9)
	assert.InDelta(t, 200.20, suppliers.Pasivo, 1e-9)

	sales := bal.Rows[2]
	assert.InDelta(t, 1000.10, sales.Ganancia, 1e-9)
	assert.Zero(t, sales.Activo)

	unknown := bal.Rows[4]
	assert.Equal(t, "6.99", unknown.Name)
	assert.Equal(t, ledger.Perdida, unknown.Type)
	assert.InDelta(t, 50.0, unknown.Perdida, 1e-9)

	assert.InDelta(t, 1450.30, bal.Totals.Debits, 1e-9)
	assert.InDelta(t, 1450.30, bal.Totals.Credits, 1e-9)
	assert.InDelta(t, 350.20, bal.Totals.Perdida, 1e-9)
	assert.InDelta(t, 1000.10, bal.Totals.Ganancia, 1e-9)
	assert.InDelta(t, 649.90, bal.Result, 1e-9)
}

func TestTrialBalance_DoesNotRequireBalancedVouchers(t *testing.T) {
	bal := ledger.TrialBalance([]*ledger.Voucher{voucher(ledger.Entry{AccountCode: "1.01.01", Debe: 10})}, nil)
	require.Len(t, bal.Rows, 1)
	assert.InDelta(t, 10.0, bal.Totals.Debits, 1e-9)
	assert.Zero(t, bal.Totals.Credits)
}

func TestTrialBalance_Empty(t *testing.T) {
	bal := ledger.TrialBalance(nil, nil)
	assert.NotNil(t, bal.Rows)
	assert.Empty(t, bal.Rows)
	assert.Zero(t, bal.Result)
}
