package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/company"
	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/libro/internal/ledger/store"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateCompany(ctx context.Context, c *company.Company, accounts []ledger.Account) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := tx.Run(ctx, `INSERT INTO companies (id, rut, name, created_at) VALUES (?, ?, ?, ?)`,
			c.ID, c.RUT, c.Name, c.CreatedAt.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("inserting company: %w", err)
		}

		for _, a := range accounts {
			if err := ledgerstore.SaveAccount(ctx, tx, c.ID, a); err != nil {
				return err
			}
		}

		return nil
	})
}

func scanCompany(s interface{ Scan(...any) error }) (*company.Company, error) {
	var (
		c         company.Company
		createdAt string
	)

	if err := s.Scan(&c.ID, &c.RUT, &c.Name, &createdAt); err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		c.CreatedAt = t
	}

	return &c, nil
}

func (s *Store) GetCompany(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	c, err := scanCompany(s.db.QueryRow(ctx, `SELECT id, rut, name, created_at FROM companies WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, company.ErrNotFound
		}

		return nil, fmt.Errorf("getting company: %w", err)
	}

	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]*company.Company, error) {
	rows, err := s.db.Query(ctx, `SELECT id, rut, name, created_at FROM companies ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var out []*company.Company

	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}

		out = append(out, c)
	}

	return out, rows.Err()
}
