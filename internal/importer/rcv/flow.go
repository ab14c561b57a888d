package rcv

import (
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// FlowResolver picks the flow type of a file from its name.
type FlowResolver func(filename string) transaction.FlowType

// SniffFlow is the default FlowResolver: "venta" in the name means sales,
// anything else is read as purchases. Honorarios are never sniffed.
func SniffFlow(filename string) transaction.FlowType {
	name := strings.ToLower(filepath.Base(filename))

	switch {
	case strings.Contains(name, "venta"):
		return transaction.FlowVenta
	case strings.Contains(name, "compra"):
		return transaction.FlowCompra
	}

	return transaction.FlowCompra
}
