package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

func TestNormalizeRUT(t *testing.T) {
	tests := map[string]string{
		"76.543.210-1":   "76543210-1",
		" 12345678-k ":   "12345678-K",
		"123456785":      "12345678-5",
		"7 654 321 - 0":  "7654321-0",
		"":               transaction.UnknownRUT,
		"K":              "K",
	}

	for in, want := range tests {
		assert.Equal(t, want, transaction.NormalizeRUT(in), in)
	}
}

func TestParseFlowType(t *testing.T) {
	f, err := transaction.ParseFlowType("Venta")
	assert.NoError(t, err)
	assert.Equal(t, transaction.FlowVenta, f)

	_, err = transaction.ParseFlowType("boleta")
	assert.ErrorIs(t, err, transaction.ErrInvalidFlow)
}

func TestSummarizeErrors(t *testing.T) {
	errs := make([]transaction.ImportError, 7)
	for i := range errs {
		errs[i] = transaction.ImportError{Line: i + 2, Reason: "fila incompleta"}
	}

	got := transaction.SummarizeErrors(errs, transaction.ErrorSummaryLimit)
	assert.Len(t, got, transaction.ErrorSummaryLimit+1)
	assert.Equal(t, "línea 2: fila incompleta", got[0])
	assert.Equal(t, "... y 2 errores más", got[5])

	assert.Len(t, transaction.SummarizeErrors(errs[:3], 5), 3)
	assert.Empty(t, transaction.SummarizeErrors(nil, 5))
}

func TestTransaction_Date(t *testing.T) {
	d, ok := transaction.Transaction{Fecha: "2024-02-29"}.Date()
	assert.True(t, ok)
	assert.Equal(t, 29, d.Day())

	_, ok = transaction.Transaction{Fecha: "2024.02.29"}.Date()
	assert.False(t, ok)
}

func TestDuplicateKey(t *testing.T) {
	a := &transaction.Transaction{RUT: "1-9", Fecha: "2024-01-01", MontoTotal: 10, Folio: "5", TipoDoc: "33", RazonSocial: "A"}
	b := &transaction.Transaction{RUT: "1-9", Fecha: "2024-01-01", MontoTotal: 10, Folio: "5", TipoDoc: "33", RazonSocial: "B"}
	c := &transaction.Transaction{RUT: "1-9", Fecha: "2024-01-01", MontoTotal: 10, Folio: "6", TipoDoc: "33"}

	assert.Equal(t, transaction.DuplicateKey(a), transaction.DuplicateKey(b))
	assert.NotEqual(t, transaction.DuplicateKey(a), transaction.DuplicateKey(c))
}
