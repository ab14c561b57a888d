package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// CreateVoucher stores v and its entries atomically and assigns the
	// next voucher number of the company.
	CreateVoucher(ctx context.Context, v *Voucher) error
	ListVouchers(ctx context.Context, companyID uuid.UUID, startDate, endDate string) ([]*Voucher, error)
	DeleteVoucher(ctx context.Context, companyID, id uuid.UUID) error

	ListAccounts(ctx context.Context, companyID uuid.UUID) ([]Account, error)
	SaveAccount(ctx context.Context, companyID uuid.UUID, a Account) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateVoucherParams struct {
	Fecha   string
	Glosa   string
	Entries []Entry
}

func (s *Service) CreateVoucher(ctx context.Context, companyID uuid.UUID, params CreateVoucherParams) (*Voucher, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	v := &Voucher{
		ID:        uuid.New(),
		CompanyID: companyID,
		Fecha:     params.Fecha,
		Glosa:     strings.TrimSpace(params.Glosa),
		CreatedAt: time.Now().UTC(),
	}

	for _, e := range params.Entries {
		e.AccountCode = strings.TrimSpace(e.AccountCode)
		e.Glosa = strings.TrimSpace(e.Glosa)
		v.Entries = append(v.Entries, e)
	}

	if err := s.repo.CreateVoucher(ctx, v); err != nil {
		return nil, fmt.Errorf("create voucher: %w", err)
	}

	return v, nil
}

func validate(params CreateVoucherParams) error {
	if _, err := time.Parse(time.DateOnly, params.Fecha); err != nil {
		return fmt.Errorf("%w: fecha %q", ErrInvalidVoucher, params.Fecha)
	}

	if len(params.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidVoucher)
	}

	for i, e := range params.Entries {
		switch {
		case strings.TrimSpace(e.AccountCode) == "":
			return fmt.Errorf("%w: entry %d has no account", ErrInvalidVoucher, i+1)
		case e.Debe < 0 || e.Haber < 0:
			return fmt.Errorf("%w: entry %d has a negative amount", ErrInvalidVoucher, i+1)
		}
	}

	return nil
}

func (s *Service) ListVouchers(ctx context.Context, companyID uuid.UUID, startDate, endDate string) ([]*Voucher, error) {
	return s.repo.ListVouchers(ctx, companyID, startDate, endDate)
}

func (s *Service) DeleteVoucher(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.DeleteVoucher(ctx, companyID, id)
}

func (s *Service) ListAccounts(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	return s.repo.ListAccounts(ctx, companyID)
}

// SaveAccount creates or renames an account. An empty type is inferred
// from the code.
func (s *Service) SaveAccount(ctx context.Context, companyID uuid.UUID, a Account) (Account, error) {
	a.Code = strings.TrimSpace(a.Code)
	a.Name = strings.TrimSpace(a.Name)

	if a.Code == "" || a.Name == "" {
		return Account{}, fmt.Errorf("account code and name are required")
	}

	if a.Type == "" {
		a.Type = TypeForCode(a.Code)
	} else if _, ok := ParseAccountType(string(a.Type)); !ok {
		return Account{}, fmt.Errorf("invalid account type %q", a.Type)
	}

	if err := s.repo.SaveAccount(ctx, companyID, a); err != nil {
		return Account{}, fmt.Errorf("save account: %w", err)
	}

	return a, nil
}

// Balance builds the 8-column balance of the vouchers dated within the range.
func (s *Service) Balance(ctx context.Context, companyID uuid.UUID, startDate, endDate string) (Balance, error) {
	vouchers, err := s.repo.ListVouchers(ctx, companyID, startDate, endDate)
	if err != nil {
		return Balance{}, fmt.Errorf("list vouchers: %w", err)
	}

	accounts, err := s.repo.ListAccounts(ctx, companyID)
	if err != nil {
		return Balance{}, fmt.Errorf("list accounts: %w", err)
	}

	return TrialBalance(vouchers, accounts), nil
}
