package tabular_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/libro/internal/importer/tabular"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		header string
		want   rune
	}{
		{"Fecha;Rut;Razon Social;Monto Total", ';'},
		{"Fecha,Rut,Razon Social,Monto Total", ','},
		{"a;b,c", ','},
		{"a;b;c,d", ';'},
		{"solo", ','},
		{"", ','},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tabular.DetectDelimiter(tt.header), tt.header)
	}
}

func TestDetectDelimiter_MajorityProperty(t *testing.T) {
	for semis := range 5 {
		for commas := range 5 {
			header := strings.Repeat("a;", semis) + strings.Repeat("b,", commas) + "c"

			want := ','
			if semis > commas {
				want = ';'
			}

			assert.Equal(t, want, tabular.DetectDelimiter(header), header)
		}
	}
}

func TestParse(t *testing.T) {
	text := "\uFEFFFecha;Rut;Razón Social;Monto Total\r\n" +
		"\r\n" +
		"01/01/2024; 76543210-1 ;Proveedor Uno;119000\r\n" +
		"   \n" +
		"02/01/2024;11111111-1;Otro;5000"

	table, err := tabular.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, ';', table.Delimiter)
	assert.Equal(t, []string{"Fecha", "Rut", "Razón Social", "Monto Total"}, table.Headers)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, 3, table.Rows[0].Line)
	assert.Equal(t, "76543210-1", table.Rows[0].Cell(1))
	assert.Equal(t, "01/01/2024; 76543210-1 ;Proveedor Uno;119000", table.Rows[0].Raw)
	assert.Equal(t, 5, table.Rows[1].Line)
	assert.Equal(t, "", table.Rows[1].Cell(9))
	assert.Equal(t, "", table.Rows[1].Cell(-1))
}

func TestParse_QuotedFieldsAreNotHonoured(t *testing.T) {
	require.False(t, tabular.SupportsQuotedFields)

	table, err := tabular.Parse("nombre,monto\n\"Pérez, Juan\",100")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Rows[0].Fields, 3)
}

func TestParse_Empty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "  \r\n\t"} {
		_, err := tabular.Parse(text)
		assert.ErrorIs(t, err, tabular.ErrEmpty)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Razón Social":     "razonsocial",
		"RUT Proveedor":    "rutproveedor",
		"Fecha Docto.":     "fechadocto",
		"Monto_Total ($)":  "montototal",
		"Retención 13,75%": "retencion1375",
		"  Año  ":          "ano",
		"Nro":              "nro",
	}

	for in, want := range tests {
		assert.Equal(t, want, tabular.NormalizeHeader(in), in)
	}
}

func TestTable_NormalizeHeaders(t *testing.T) {
	table := &tabular.Table{Headers: []string{"Fecha", "Monto Neto"}}
	assert.Equal(t, []string{"fecha", "montoneto"}, table.NormalizeHeaders())
}
