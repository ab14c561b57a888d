package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FlowType is whether a transaction is a purchase, a sale or a professional fee.
type FlowType string

const (
	FlowCompra     FlowType = "compra"
	FlowVenta      FlowType = "venta"
	FlowHonorarios FlowType = "honorarios"
)

// Sentinels used when a row does not carry a counterparty.
const (
	UnknownRUT  = "S/R"
	UnknownName = "Desconocido"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrInvalidFlow = errors.New("invalid flow type")
)

func ParseFlowType(s string) (FlowType, error) {
	switch f := FlowType(strings.ToLower(strings.TrimSpace(s))); f {
	case FlowCompra, FlowVenta, FlowHonorarios:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidFlow, s)
}

// Transaction is one registry line as imported from an SII export.
// Fecha is ISO YYYY-MM-DD when the source date could be normalized and the
// raw value otherwise; OriginalDate always keeps the raw cell.
type Transaction struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Type           FlowType
	Fecha          string
	OriginalDate   string
	RUT            string
	RazonSocial    string
	Folio          string
	TipoDoc        string
	MontoNeto      float64
	MontoExento    float64
	MontoTotal     float64
	MontoRetencion *float64 // honorarios only
	SourceFile     string
	CreatedAt      time.Time
}

// Date parses Fecha. The second value is false for dates that were passed
// through without normalization.
func (t Transaction) Date() (time.Time, bool) {
	d, err := time.Parse(time.DateOnly, t.Fecha)
	if err != nil {
		return time.Time{}, false
	}

	return d, true
}

// ImportError describes a rejected input row.
type ImportError struct {
	Line   int
	Reason string
	Raw    string
}

func (e ImportError) String() string {
	return fmt.Sprintf("línea %d: %s", e.Line, e.Reason)
}

// ErrorSummaryLimit is how many row errors the import surfaces list before
// summarising the rest.
const ErrorSummaryLimit = 5

// SummarizeErrors renders at most limit errors followed by a count of the rest.
func SummarizeErrors(errs []ImportError, limit int) []string {
	if limit < 0 {
		limit = 0
	}

	n := min(limit, len(errs))

	out := make([]string, 0, n+1)
	for _, e := range errs[:n] {
		out = append(out, e.String())
	}

	if rest := len(errs) - n; rest > 0 {
		out = append(out, fmt.Sprintf("... y %d errores más", rest))
	}

	return out
}
