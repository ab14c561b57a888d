package bank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/libro/internal/importer/bank"
	"github.com/MrJamesThe3rd/libro/internal/reconcile"
)

func TestParser_Cartola(t *testing.T) {
	text := `Cartola Histórica;;;;;
Titular;COMERCIAL SUR SPA;;;;
Cuenta;00-123-45678-90;;;;

Fecha;N° Operación;Descripción;Cargos;Abonos;Saldo
02/01/2024;1001;TRASPASO DE: CLIENTE UNO;;119.000;1.119.000
03-01-2024;1002;PAGO PROVEEDOR;23.800;;1.095.200
;;Total;23.800;119.000;
`

	lines, err := bank.NewParser().Parse(text)
	require.NoError(t, err)

	assert.Equal(t, []reconcile.BankLine{
		{Fecha: "2024-01-02", Descripcion: "TRASPASO DE: CLIENTE UNO", Monto: 119000},
		{Fecha: "2024-01-03", Descripcion: "PAGO PROVEEDOR", Monto: -23800},
	}, lines)
}

func TestParser_SingleAmount(t *testing.T) {
	text := "Fecha,Glosa,Monto,Saldo\r\n" +
		"2024-02-01,Depósito efectivo,50000,50000\r\n" +
		"05/02/2024,Comisión mantención,-3500,46500\r\n" +
		"06/02/2024,Sin movimiento,0,46500\r\n"

	lines, err := bank.NewParser().Parse(text)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "2024-02-01", lines[0].Fecha)
	assert.InDelta(t, 50000.0, lines[0].Monto, 1e-9)
	assert.Equal(t, "Comisión mantención", lines[1].Descripcion)
	assert.InDelta(t, -3500.0, lines[1].Monto, 1e-9)
}

func TestParser_CuentaCorriente(t *testing.T) {
	text := "Fecha;Glosa;Giros;Depósitos\n10/03/2024;CHEQUE 445;12.500;\n11/03/2024;DEP. DOCUMENTOS;;80.000\n"

	lines, err := bank.NewParser().Parse(text)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.InDelta(t, -12500.0, lines[0].Monto, 1e-9)
	assert.InDelta(t, 80000.0, lines[1].Monto, 1e-9)
}

func TestParser_MissingDescription(t *testing.T) {
	text := "Fecha;Descripción;Monto\n01/01/2024;;100\n"

	_, err := bank.NewParser().Parse(text)
	assert.ErrorContains(t, err, "row 2: missing description")
}

func TestParser_UnknownFormat(t *testing.T) {
	_, err := bank.NewParser().Parse("Fecha;Rut;Monto Total\n01/01/2024;1-9;100\n")
	assert.ErrorIs(t, err, bank.ErrUnknownFormat)
}
