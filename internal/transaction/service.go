package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, companyID, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	CountTransactions(ctx context.Context, companyID uuid.UUID) (int, error)
	DeleteTransaction(ctx context.Context, companyID, id uuid.UUID) error

	BeginImport(ctx context.Context, companyID uuid.UUID, minDate, maxDate string) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, companyID uuid.UUID, txs []*Transaction) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListFilter narrows a company's dataset. Dates are inclusive ISO bounds;
// empty values leave that side open.
type ListFilter struct {
	Type      *FlowType
	StartDate string
	EndDate   string
	Search    string // matched against rut, razón social and folio
}

type CreateParams struct {
	Type           FlowType
	Fecha          string
	RUT            string
	RazonSocial    string
	Folio          string
	TipoDoc        string
	MontoNeto      float64
	MontoExento    float64
	MontoTotal     float64
	MontoRetencion *float64
}

// Create stores a manually entered transaction.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, params CreateParams) (*Transaction, error) {
	flow, err := ParseFlowType(string(params.Type))
	if err != nil {
		return nil, err
	}

	if _, err := time.Parse(time.DateOnly, params.Fecha); err != nil {
		return nil, fmt.Errorf("invalid fecha %q: %w", params.Fecha, err)
	}

	name := strings.TrimSpace(params.RazonSocial)
	if name == "" {
		name = UnknownName
	}

	tx := &Transaction{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Type:         flow,
		Fecha:        params.Fecha,
		OriginalDate: params.Fecha,
		RUT:          NormalizeRUT(params.RUT),
		RazonSocial:  name,
		Folio:        strings.TrimSpace(params.Folio),
		TipoDoc:      strings.TrimSpace(params.TipoDoc),
		MontoNeto:    params.MontoNeto,
		MontoExento:  params.MontoExento,
		MontoTotal:   params.MontoTotal,
		SourceFile:   "manual",
	}

	if flow == FlowHonorarios {
		tx.MontoRetencion = params.MontoRetencion
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, companyID, filter)
}

func (s *Service) Get(ctx context.Context, companyID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, companyID, id)
}

func (s *Service) Count(ctx context.Context, companyID uuid.UUID) (int, error) {
	return s.repo.CountTransactions(ctx, companyID)
}

func (s *Service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, companyID, id)
}

// Decision is the caller's answer to a duplicate conflict.
type Decision string

const (
	DecisionSkip  Decision = "skip"
	DecisionForce Decision = "force"
)

func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionSkip, DecisionForce:
		return d, nil
	}

	return "", fmt.Errorf("invalid decision %q: want skip or force", s)
}

type ImportResult struct {
	Imported []*Transaction

	// Set only when duplicates were found; nothing has been written yet.
	New             []*Transaction
	Conflicts       []Conflict
	DuplicatesFound int
}

type Conflict struct {
	Incoming *Transaction
	Existing *Transaction
}

// Key identifies a registry line for duplicate detection.
type Key struct {
	RUT        string
	Fecha      string
	MontoTotal float64
	Folio      string
	TipoDoc    string
}

func DuplicateKey(tx *Transaction) Key {
	return Key{
		RUT:        tx.RUT,
		Fecha:      tx.Fecha,
		MontoTotal: tx.MontoTotal,
		Folio:      tx.Folio,
		TipoDoc:    tx.TipoDoc,
	}
}

// ImportBatch stores txs unless some of them already exist in the company's
// dataset, in which case nothing is written and the caller must Resolve.
func (s *Service) ImportBatch(ctx context.Context, companyID uuid.UUID, txs []*Transaction) (*ImportResult, error) {
	if len(txs) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(txs)

	itx, err := s.repo.BeginImport(ctx, companyID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, companyID, txs)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[Key]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[DuplicateKey(d)] = d
	}

	var (
		fresh     []*Transaction
		conflicts []Conflict
	)

	for _, tx := range txs {
		if existing, found := lookup[DuplicateKey(tx)]; found {
			conflicts = append(conflicts, Conflict{Incoming: tx, Existing: existing})
			continue
		}

		fresh = append(fresh, tx)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: fresh, Conflicts: conflicts, DuplicatesFound: len(conflicts)}, nil
	}

	stamp(companyID, fresh)

	if err := itx.CreateTransactions(ctx, fresh); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: fresh}, nil
}

// Resolve finishes an import that stopped on duplicates.
func (s *Service) Resolve(ctx context.Context, companyID uuid.UUID, result *ImportResult, decision Decision) ([]*Transaction, error) {
	txs := append([]*Transaction(nil), result.New...)

	if decision == DecisionForce {
		for _, c := range result.Conflicts {
			txs = append(txs, c.Incoming)
		}
	}

	return s.CreateBatch(ctx, companyID, txs)
}

// CreateBatch stores txs without duplicate checks.
func (s *Service) CreateBatch(ctx context.Context, companyID uuid.UUID, txs []*Transaction) ([]*Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(txs)

	itx, err := s.repo.BeginImport(ctx, companyID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	stamp(companyID, txs)

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func stamp(companyID uuid.UUID, txs []*Transaction) {
	for _, tx := range txs {
		tx.CompanyID = companyID
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
	}
}

// dateRange compares fechas as strings; ISO dates sort chronologically and
// pass-through values still fall inside the bounds of the batch they came in.
func dateRange(txs []*Transaction) (string, string) {
	minDate := txs[0].Fecha
	maxDate := txs[0].Fecha

	for _, tx := range txs[1:] {
		if tx.Fecha < minDate {
			minDate = tx.Fecha
		}

		if tx.Fecha > maxDate {
			maxDate = tx.Fecha
		}
	}

	return minDate, maxDate
}
