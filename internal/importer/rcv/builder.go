// Package rcv turns parsed registry tables (Registro de Compras y Ventas,
// boletas de honorarios) into transactions.
package rcv

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/importer/columns"
	"github.com/MrJamesThe3rd/libro/internal/importer/normalize"
	"github.com/MrJamesThe3rd/libro/internal/importer/tabular"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// RowSlack is how many trailing fields a row may lack before it is dropped.
const RowSlack = 2

type Builder struct {
	Normalizer normalize.Normalizer
	NewID      func() uuid.UUID

	// Strict records dropped rows as import errors instead of skipping them
	// silently. Zero-total rows are always skipped silently.
	Strict bool
}

type Result struct {
	Transactions []*transaction.Transaction
	Errors       []transaction.ImportError
	Skipped      int
	Columns      columns.Columns
}

// Build resolves the columns of table once and emits one transaction per
// row with a non-zero total. The only error is a missing total column.
func (b Builder) Build(companyID uuid.UUID, sourceFile string, table *tabular.Table, flow transaction.FlowType) (*Result, error) {
	cols, err := columns.Resolve(table.Headers)
	if err != nil {
		return nil, err
	}

	newID := b.NewID
	if newID == nil {
		newID = uuid.New
	}

	res := &Result{Columns: cols}
	minFields := len(table.Headers) - RowSlack

	for _, row := range table.Rows {
		if len(row.Fields) < minFields {
			res.Skipped++
			b.record(res, row, fmt.Sprintf("fila incompleta: %d de %d columnas", len(row.Fields), len(table.Headers)))

			continue
		}

		rawTotal := row.Cell(cols.Total)

		total, err := normalize.ParseNumber(rawTotal)
		if err != nil {
			res.Skipped++
			b.record(res, row, fmt.Sprintf("monto total inválido %q", rawTotal))

			continue
		}

		if total == 0 {
			res.Skipped++
			continue
		}

		rawDate := row.Cell(cols.Date)

		tx := &transaction.Transaction{
			ID:           newID(),
			CompanyID:    companyID,
			Type:         flow,
			Fecha:        b.Normalizer.Date(rawDate),
			OriginalDate: rawDate,
			RUT:          orDefault(row.Cell(cols.RUT), transaction.UnknownRUT),
			RazonSocial:  orDefault(row.Cell(cols.Name), transaction.UnknownName),
			Folio:        row.Cell(cols.Folio),
			TipoDoc:      row.Cell(cols.TipoDoc),
			MontoNeto:    normalize.Number(row.Cell(cols.Net)),
			MontoExento:  normalize.Number(row.Cell(cols.Exento)),
			MontoTotal:   total,
			SourceFile:   sourceFile,
		}

		if flow == transaction.FlowHonorarios && cols.Retencion >= 0 {
			tx.MontoRetencion = new(normalize.Number(row.Cell(cols.Retencion)))
		}

		res.Transactions = append(res.Transactions, tx)
	}

	return res, nil
}

func (b Builder) record(res *Result, row tabular.Row, reason string) {
	if !b.Strict {
		return
	}

	res.Errors = append(res.Errors, transaction.ImportError{Line: row.Line, Reason: reason, Raw: row.Raw})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
