package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type Response struct {
	ID             uuid.UUID            `json:"id"`
	Type           transaction.FlowType `json:"type"`
	Fecha          string               `json:"fecha"`
	OriginalDate   string               `json:"original_date,omitempty"`
	RUT            string               `json:"rut"`
	RazonSocial    string               `json:"razon_social"`
	Folio          string               `json:"folio,omitempty"`
	TipoDoc        string               `json:"tipo_doc,omitempty"`
	MontoNeto      float64              `json:"monto_neto"`
	MontoExento    float64              `json:"monto_exento"`
	MontoTotal     float64              `json:"monto_total"`
	MontoRetencion *float64             `json:"monto_retencion,omitempty"`
	SourceFile     string               `json:"source_file,omitempty"`
	CreatedAt      *time.Time           `json:"created_at,omitempty"`
}

func ToResponse(tx *transaction.Transaction) Response {
	resp := Response{
		ID:             tx.ID,
		Type:           tx.Type,
		Fecha:          tx.Fecha,
		OriginalDate:   tx.OriginalDate,
		RUT:            tx.RUT,
		RazonSocial:    tx.RazonSocial,
		Folio:          tx.Folio,
		TipoDoc:        tx.TipoDoc,
		MontoNeto:      tx.MontoNeto,
		MontoExento:    tx.MontoExento,
		MontoTotal:     tx.MontoTotal,
		MontoRetencion: tx.MontoRetencion,
		SourceFile:     tx.SourceFile,
	}

	if !tx.CreatedAt.IsZero() {
		resp.CreatedAt = &tx.CreatedAt
	}

	return resp
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
