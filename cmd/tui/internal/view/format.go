package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/libro/internal/export"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders a peso amount with thousands separators.
func FormatAmount(amount float64) string {
	return export.CLP(amount)
}

// FormatFlow gives the short column label of a flow type.
func FormatFlow(f transaction.FlowType) string {
	switch f {
	case transaction.FlowCompra:
		return "C"
	case transaction.FlowVenta:
		return "V"
	case transaction.FlowHonorarios:
		return "H"
	}

	return "?"
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
