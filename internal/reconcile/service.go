package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/ledger"
)

// DefaultBankAccount is the chart code of the bank account in
// ledger.DefaultAccounts.
const DefaultBankAccount = "1.01.01"

//go:generate mockgen -source=service.go -destination=service_mock.go -package=reconcile
type VoucherLister interface {
	ListVouchers(ctx context.Context, companyID uuid.UUID, startDate, endDate string) ([]*ledger.Voucher, error)
}

type Service struct {
	vouchers    VoucherLister
	bankAccount string
}

func NewService(vouchers VoucherLister, bankAccount string) *Service {
	if bankAccount == "" {
		bankAccount = DefaultBankAccount
	}

	return &Service{vouchers: vouchers, bankAccount: bankAccount}
}

// Reconcile matches lines against the bank account movements of the
// vouchers dated within the statement's period.
func (s *Service) Reconcile(ctx context.Context, companyID uuid.UUID, lines []BankLine) (Result, error) {
	if len(lines) == 0 {
		return Match(nil, nil), nil
	}

	start, end := lines[0].Fecha, lines[0].Fecha
	for _, l := range lines[1:] {
		start = min(start, l.Fecha)
		end = max(end, l.Fecha)
	}

	vouchers, err := s.vouchers.ListVouchers(ctx, companyID, start, end)
	if err != nil {
		return Result{}, fmt.Errorf("list vouchers: %w", err)
	}

	return Match(lines, Movements(vouchers, s.bankAccount)), nil
}
