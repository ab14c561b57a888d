package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// Entity is a counterparty known to a company, keyed by RUT.
type Entity struct {
	RUT  string
	Name string
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=entity
type Repository interface {
	FindName(ctx context.Context, companyID uuid.UUID, rut string) (string, error)
	FindNames(ctx context.Context, companyID uuid.UUID, ruts []string) (map[string]string, error)
	Upsert(ctx context.Context, companyID uuid.UUID, entities []Entity) error
	List(ctx context.Context, companyID uuid.UUID) ([]Entity, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the recorded name for rut, or "" when it is unknown.
func (s *Service) Suggest(ctx context.Context, companyID uuid.UUID, rut string) (string, error) {
	return s.repo.FindName(ctx, companyID, rut)
}

// Learn remembers name as the display name of rut.
func (s *Service) Learn(ctx context.Context, companyID uuid.UUID, rut, name string) error {
	rut, name = strings.TrimSpace(rut), strings.TrimSpace(name)
	if !learnable(rut, name) {
		return nil
	}

	return s.repo.Upsert(ctx, companyID, []Entity{{RUT: rut, Name: name}})
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]Entity, error) {
	return s.repo.List(ctx, companyID)
}

// Fill replaces the unknown-name sentinel on txs with recorded names and
// reports how many were filled.
func (s *Service) Fill(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) (int, error) {
	var ruts []string

	seen := make(map[string]struct{})

	for _, tx := range txs {
		if tx.RazonSocial != transaction.UnknownName || tx.RUT == transaction.UnknownRUT {
			continue
		}

		if _, ok := seen[tx.RUT]; !ok {
			seen[tx.RUT] = struct{}{}
			ruts = append(ruts, tx.RUT)
		}
	}

	if len(ruts) == 0 {
		return 0, nil
	}

	names, err := s.repo.FindNames(ctx, companyID, ruts)
	if err != nil {
		return 0, fmt.Errorf("find names: %w", err)
	}

	filled := 0

	for _, tx := range txs {
		if tx.RazonSocial != transaction.UnknownName {
			continue
		}

		if name, ok := names[tx.RUT]; ok && name != "" {
			tx.RazonSocial = name
			filled++
		}
	}

	return filled, nil
}

// LearnFrom records one name per RUT seen in txs. When a RUT appears with
// several names the longest one is kept, and a recorded name is only
// replaced by a longer one. Learn overwrites unconditionally.
func (s *Service) LearnFrom(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) error {
	var (
		order []string
		best  = make(map[string]string)
	)

	for _, tx := range txs {
		if !learnable(tx.RUT, tx.RazonSocial) {
			continue
		}

		current, ok := best[tx.RUT]
		if !ok {
			order = append(order, tx.RUT)
		}

		if len(tx.RazonSocial) > len(current) {
			best[tx.RUT] = tx.RazonSocial
		}
	}

	if len(order) == 0 {
		return nil
	}

	known, err := s.repo.FindNames(ctx, companyID, order)
	if err != nil {
		return fmt.Errorf("find names: %w", err)
	}

	entities := make([]Entity, 0, len(order))

	for _, rut := range order {
		if len(best[rut]) <= len(known[rut]) {
			continue
		}

		entities = append(entities, Entity{RUT: rut, Name: best[rut]})
	}

	if len(entities) == 0 {
		return nil
	}

	return s.repo.Upsert(ctx, companyID, entities)
}

func learnable(rut, name string) bool {
	return rut != "" && rut != transaction.UnknownRUT && name != "" && name != transaction.UnknownName
}
