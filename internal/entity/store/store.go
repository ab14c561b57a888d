package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/entity"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindName(ctx context.Context, companyID uuid.UUID, rut string) (string, error) {
	var name string

	err := s.db.QueryRow(ctx, `SELECT name FROM entities WHERE company_id = ? AND rut = ?`, companyID, rut).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding entity: %w", err)
	}

	return name, nil
}

func (s *Store) FindNames(ctx context.Context, companyID uuid.UUID, ruts []string) (map[string]string, error) {
	names := make(map[string]string, len(ruts))
	if len(ruts) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ruts)), ", ")
	args := make([]any, 0, len(ruts)+1)
	args = append(args, companyID)

	for _, r := range ruts {
		args = append(args, r)
	}

	rows, err := s.db.Query(ctx, `SELECT rut, name FROM entities WHERE company_id = ? AND rut IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("finding entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rut, name string
		if err := rows.Scan(&rut, &name); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}

		names[rut] = name
	}

	return names, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, companyID uuid.UUID, entities []entity.Entity) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, e := range entities {
			err := tx.Run(ctx, `
				INSERT INTO entities (company_id, rut, name, updated_at) VALUES (?, ?, ?, ?)
				ON CONFLICT (company_id, rut) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
				companyID, e.RUT, e.Name, now,
			)
			if err != nil {
				return fmt.Errorf("upserting entity %s: %w", e.RUT, err)
			}
		}

		return nil
	})
}

func (s *Store) List(ctx context.Context, companyID uuid.UUID) ([]entity.Entity, error) {
	rows, err := s.db.Query(ctx, `SELECT rut, name FROM entities WHERE company_id = ? ORDER BY name, rut`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var out []entity.Entity

	for rows.Next() {
		var e entity.Entity
		if err := rows.Scan(&e.RUT, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}

		out = append(out, e)
	}

	return out, rows.Err()
}
