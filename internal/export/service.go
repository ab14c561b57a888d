package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// Service exports a company's registry.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Export writes the transactions matching filter as one SII registry and
// returns how many rows were written.
func (s *Service) Export(ctx context.Context, companyID uuid.UUID, filter transaction.ListFilter, w io.Writer) (int, error) {
	txs, err := s.transactions.List(ctx, companyID, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	if err := WriteSII(w, txs); err != nil {
		return 0, err
	}

	return len(txs), nil
}

var archiveFlows = []transaction.FlowType{transaction.FlowCompra, transaction.FlowVenta, transaction.FlowHonorarios}

var archiveNames = map[transaction.FlowType]string{
	transaction.FlowCompra:     "compras.csv",
	transaction.FlowVenta:      "ventas.csv",
	transaction.FlowHonorarios: "honorarios.csv",
}

// Archive writes a zip with one registry per flow type that has rows and a
// resumen.txt with the totals.
func (s *Service) Archive(ctx context.Context, companyID uuid.UUID, filter transaction.ListFilter, w io.Writer) error {
	txs, err := s.transactions.List(ctx, companyID, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	byFlow := make(map[transaction.FlowType][]*transaction.Transaction)
	for _, tx := range txs {
		byFlow[tx.Type] = append(byFlow[tx.Type], tx)
	}

	zw := zip.NewWriter(w)

	for _, flow := range archiveFlows {
		rows := byFlow[flow]
		if len(rows) == 0 {
			continue
		}

		f, err := zw.Create(archiveNames[flow])
		if err != nil {
			return fmt.Errorf("creating %s entry: %w", flow, err)
		}

		if err := WriteSII(f, rows); err != nil {
			return fmt.Errorf("writing %s: %w", flow, err)
		}
	}

	f, err := zw.Create("resumen.txt")
	if err != nil {
		return fmt.Errorf("creating summary entry: %w", err)
	}

	if _, err := io.WriteString(f, Summary(txs)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return zw.Close()
}

// Summary renders one line per flow type with its document count and total.
func Summary(txs []*transaction.Transaction) string {
	var (
		sb     strings.Builder
		counts = make(map[transaction.FlowType]int)
		totals = make(map[transaction.FlowType]float64)
	)

	for _, tx := range txs {
		counts[tx.Type]++
		totals[tx.Type] += tx.MontoTotal
	}

	for _, flow := range archiveFlows {
		fmt.Fprintf(&sb, "* %-10s | %4d documentos | %s\n", flow, counts[flow], CLP(totals[flow]))
	}

	return sb.String()
}

// CLP formats an amount in Chilean pesos, which have no minor unit.
func CLP(amount float64) string {
	return money.New(int64(math.Round(amount)), money.CLP).Display()
}
