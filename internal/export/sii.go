package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

const bom = "\uFEFF"

var siiHeader = []string{
	"Tipo Doc", "Folio", "Fecha Docto", "RUT Emisor/Receptor", "Razon Social",
	"Monto Neto", "Monto Exento", "Monto IVA", "Monto Total",
}

// WriteSII writes txs as a semicolon separated registry with a UTF-8 BOM.
// Amounts are rounded half away from zero and IVA is total minus net minus
// exempt. Dates that are not ISO are written as they were imported.
func WriteSII(w io.Writer, txs []*transaction.Transaction) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(siiHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		neto := decimal.NewFromFloat(tx.MontoNeto)
		exento := decimal.NewFromFloat(tx.MontoExento)
		total := decimal.NewFromFloat(tx.MontoTotal)
		iva := total.Sub(neto).Sub(exento)

		record := []string{
			tx.TipoDoc,
			tx.Folio,
			siiDate(tx.Fecha),
			tx.RUT,
			tx.RazonSocial,
			whole(neto),
			whole(exento),
			whole(iva),
			whole(total),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func whole(d decimal.Decimal) string {
	return d.Round(0).StringFixed(0)
}

func siiDate(fecha string) string {
	d, err := time.Parse(time.DateOnly, fecha)
	if err != nil {
		return fecha
	}

	return d.Format("02/01/2006")
}
