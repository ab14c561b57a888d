package rcv_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/libro/internal/importer/columns"
	"github.com/MrJamesThe3rd/libro/internal/importer/normalize"
	"github.com/MrJamesThe3rd/libro/internal/importer/rcv"
	"github.com/MrJamesThe3rd/libro/internal/importer/tabular"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

var company = uuid.MustParse("0b9d3a52-7d0f-4c4e-8a8e-5f1f7c2d9e10")

func builder(strict bool) rcv.Builder {
	return rcv.Builder{
		Normalizer: normalize.Normalizer{Now: func() time.Time { return time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC) }},
		Strict:     strict,
	}
}

func parse(t *testing.T, text string) *tabular.Table {
	t.Helper()

	table, err := tabular.Parse(text)
	require.NoError(t, err)

	return table
}

func TestBuilder_Build(t *testing.T) {
	table := parse(t, "Tipo Doc;Folio;Fecha Docto;RUT Proveedor;Razon Social;Monto Exento;Monto Neto;Monto Total\n"+
		"33;1001;01/01/2024;76543210-1;Proveedor Uno;0;100.000;119.000\n"+
		"34;1002;;;;5.000;0;5.000\n"+
		"33;1003;2024-01-20;11111111-1;Mal Formado;0;200;100\n")

	res, err := builder(false).Build(company, "compras_enero.csv", table, transaction.FlowCompra)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, company, first.CompanyID)
	assert.Equal(t, transaction.FlowCompra, first.Type)
	assert.Equal(t, "2024-01-01", first.Fecha)
	assert.Equal(t, "01/01/2024", first.OriginalDate)
	assert.Equal(t, "76543210-1", first.RUT)
	assert.Equal(t, "Proveedor Uno", first.RazonSocial)
	assert.Equal(t, "1001", first.Folio)
	assert.Equal(t, "33", first.TipoDoc)
	assert.InDelta(t, 100000.0, first.MontoNeto, 0.001)
	assert.InDelta(t, 119000.0, first.MontoTotal, 0.001)
	assert.Equal(t, "compras_enero.csv", first.SourceFile)
	assert.Nil(t, first.MontoRetencion)

	defaults := res.Transactions[1]
	assert.Equal(t, transaction.UnknownRUT, defaults.RUT)
	assert.Equal(t, transaction.UnknownName, defaults.RazonSocial)
	assert.Equal(t, "2024-06-09", defaults.Fecha)
	assert.Equal(t, "", defaults.OriginalDate)
	assert.InDelta(t, 5000.0, defaults.MontoExento, 0.001)

	inverted := res.Transactions[2]
	assert.Equal(t, "2024-01-20", inverted.Fecha)
	assert.Less(t, inverted.MontoTotal, inverted.MontoNeto)
}

func TestBuilder_SkipsZeroTotals(t *testing.T) {
	for _, total := range []string{"0", "0,00", "", "0.000"} {
		table := parse(t, "Fecha,Rut,Razon Social,Total\n01/02/2024,1-9,Alguien,"+total+"\n")

		res, err := builder(true).Build(company, "ventas.csv", table, transaction.FlowVenta)
		require.NoError(t, err)
		assert.Empty(t, res.Transactions, "%q", total)
		assert.Empty(t, res.Errors, "%q", total)
		assert.Equal(t, 1, res.Skipped)
	}
}

func TestBuilder_UnderWidthRows(t *testing.T) {
	text := "Fecha;Rut;Razon Social;Folio;Monto Neto;Monto Total\n" +
		"01/01/2024;1-9;Uno;10;100;119\n" +
		"01/01/2024;1-9;Dos;11\n" +
		"01/01/2024;1-9;Tres\n"

	table := parse(t, text)

	lenient, err := builder(false).Build(company, "compras.csv", table, transaction.FlowCompra)
	require.NoError(t, err)
	assert.Len(t, lenient.Transactions, 1)
	assert.Empty(t, lenient.Errors)
	assert.Equal(t, 2, lenient.Skipped)

	strict, err := builder(true).Build(company, "compras.csv", table, transaction.FlowCompra)
	require.NoError(t, err)
	assert.Len(t, strict.Transactions, 1)
	require.Len(t, strict.Errors, 1)
	assert.Equal(t, 4, strict.Errors[0].Line)
	assert.Equal(t, "01/01/2024;1-9;Tres", strict.Errors[0].Raw)
	assert.Contains(t, strict.Errors[0].Reason, "fila incompleta")
}

func TestBuilder_StrictRecordsBadTotals(t *testing.T) {
	table := parse(t, "Fecha;Rut;Monto Total\n01/01/2024;1-9;abc\n01/01/2024;1-9;1.000\n")

	res, err := builder(true).Build(company, "compras.csv", table, transaction.FlowCompra)
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Line)

	res, err = builder(false).Build(company, "compras.csv", table, transaction.FlowCompra)
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)
	assert.Empty(t, res.Errors)
}

func TestBuilder_Honorarios(t *testing.T) {
	table := parse(t, "Fecha;Rut;Nombre;Brutos;Retenido;Monto\n05/03/2024;12345678-5;Ana Pérez;100.000;13.750;100.000\n")

	res, err := builder(false).Build(company, "boletas.csv", table, transaction.FlowHonorarios)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)

	tx := res.Transactions[0]
	assert.Equal(t, transaction.FlowHonorarios, tx.Type)
	require.NotNil(t, tx.MontoRetencion)
	assert.InDelta(t, 13750.0, *tx.MontoRetencion, 0.001)

	res, err = builder(false).Build(company, "boletas.csv", table, transaction.FlowCompra)
	require.NoError(t, err)
	assert.Nil(t, res.Transactions[0].MontoRetencion)
}

func TestBuilder_MissingTotal(t *testing.T) {
	table := parse(t, "Fecha;Rut;Razon Social;Monto Neto\n01/01/2024;1-9;Uno;100\n")

	_, err := builder(false).Build(company, "compras.csv", table, transaction.FlowCompra)
	assert.ErrorIs(t, err, columns.ErrMissingTotal)
	assert.ErrorContains(t, err, "Fecha, Rut, Razon Social, Monto Neto")
}

func TestBuilder_UsesInjectedIDs(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	b := builder(false)
	b.NewID = func() uuid.UUID { return id }

	res, err := b.Build(company, "x.csv", parse(t, "Monto\n10\n"), transaction.FlowVenta)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, id, res.Transactions[0].ID)
}

func TestSniffFlow(t *testing.T) {
	tests := map[string]transaction.FlowType{
		"ventas_enero.csv":            transaction.FlowVenta,
		"RCV_VENTA_76543210-1.csv":    transaction.FlowVenta,
		"compras_enero.csv":           transaction.FlowCompra,
		"registro.csv":                transaction.FlowCompra,
		"/tmp/ventas/honorarios.csv":  transaction.FlowCompra,
		"honorarios_venta_compra.csv": transaction.FlowVenta,
	}

	for name, want := range tests {
		assert.Equal(t, want, rcv.SniffFlow(name), name)
	}
}
