package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/ledger"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

var ErrNotFound = errors.New("company not found")

type Company struct {
	ID        uuid.UUID
	RUT       string
	Name      string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=company
type Repository interface {
	// CreateCompany inserts c together with its chart of accounts.
	CreateCompany(ctx context.Context, c *Company, accounts []ledger.Account) error
	GetCompany(ctx context.Context, id uuid.UUID) (*Company, error)
	ListCompanies(ctx context.Context) ([]*Company, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a company and seeds ledger.DefaultAccounts.
func (s *Service) Create(ctx context.Context, rut, name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("company name is required")
	}

	c := &Company{
		ID:        uuid.New(),
		RUT:       transaction.NormalizeRUT(rut),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateCompany(ctx, c, ledger.DefaultAccounts); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Company, error) {
	return s.repo.ListCompanies(ctx)
}

// Default returns the only company of a single-company store, creating it
// from rut and name when the store is empty. It is used by the local tools.
func (s *Service) Default(ctx context.Context, rut, name string) (*Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	if len(companies) > 0 {
		return companies[0], nil
	}

	return s.Create(ctx, rut, name)
}
