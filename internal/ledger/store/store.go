package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateVoucher(ctx context.Context, v *ledger.Voucher) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		var next int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) + 1 FROM vouchers WHERE company_id = ?`, v.CompanyID).Scan(&next); err != nil {
			return fmt.Errorf("next voucher number: %w", err)
		}

		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now().UTC()
		}

		if err := tx.Run(ctx,
			`INSERT INTO vouchers (id, company_id, number, fecha, glosa, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			v.ID, v.CompanyID, next, v.Fecha, v.Glosa, v.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("inserting voucher: %w", err)
		}

		for i, e := range v.Entries {
			if err := tx.Run(ctx, `
				INSERT INTO ledger_entries (id, voucher_id, company_id, line, account_code, debe, haber, glosa)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.New(), v.ID, v.CompanyID, i+1, e.AccountCode, e.Debe, e.Haber, e.Glosa,
			); err != nil {
				return fmt.Errorf("inserting entry %d: %w", i+1, err)
			}
		}

		v.Number = next

		return nil
	})
}

// ListVouchers returns the vouchers dated within the inclusive range with
// their entries. Empty bounds are open.
func (s *Store) ListVouchers(ctx context.Context, companyID uuid.UUID, startDate, endDate string) ([]*ledger.Voucher, error) {
	query := `SELECT id, company_id, number, fecha, glosa, created_at FROM vouchers WHERE company_id = ?`
	args := []any{companyID}

	if startDate != "" {
		query += " AND fecha >= ?"

		args = append(args, startDate)
	}

	if endDate != "" {
		query += " AND fecha <= ?"

		args = append(args, endDate)
	}

	query += " ORDER BY fecha ASC, number ASC"

	vouchers, err := s.scanVouchers(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	if len(vouchers) == 0 {
		return vouchers, nil
	}

	byID := make(map[uuid.UUID]*ledger.Voucher, len(vouchers))
	for _, v := range vouchers {
		byID[v.ID] = v
	}

	rows, err := s.db.Query(ctx, `
		SELECT voucher_id, account_code, debe, haber, glosa
		FROM ledger_entries WHERE company_id = ?
		ORDER BY voucher_id, line`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			voucherID uuid.UUID
			e         ledger.Entry
		)

		if err := rows.Scan(&voucherID, &e.AccountCode, &e.Debe, &e.Haber, &e.Glosa); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		if v, ok := byID[voucherID]; ok {
			v.Entries = append(v.Entries, e)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return vouchers, nil
}

func (s *Store) scanVouchers(ctx context.Context, query string, args ...any) ([]*ledger.Voucher, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []*ledger.Voucher

	for rows.Next() {
		var (
			v         ledger.Voucher
			createdAt string
		)

		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Number, &v.Fecha, &v.Glosa, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning voucher: %w", err)
		}

		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			v.CreatedAt = t
		}

		vouchers = append(vouchers, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vouchers: %w", err)
	}

	return vouchers, nil
}

func (s *Store) DeleteVoucher(ctx context.Context, companyID, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers WHERE company_id = ? AND id = ?`, companyID, id).Scan(&n); err != nil {
			return fmt.Errorf("finding voucher: %w", err)
		}

		if n == 0 {
			return ledger.ErrNotFound
		}

		if err := tx.Run(ctx, `DELETE FROM ledger_entries WHERE voucher_id = ?`, id); err != nil {
			return fmt.Errorf("deleting entries: %w", err)
		}

		if err := tx.Run(ctx, `DELETE FROM vouchers WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting voucher: %w", err)
		}

		return nil
	})
}

func (s *Store) ListAccounts(ctx context.Context, companyID uuid.UUID) ([]ledger.Account, error) {
	rows, err := s.db.Query(ctx, `SELECT code, name, type FROM accounts WHERE company_id = ? ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account

	for rows.Next() {
		var (
			a       ledger.Account
			typeStr string
		)

		if err := rows.Scan(&a.Code, &a.Name, &typeStr); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		a.Type = ledger.AccountType(typeStr)
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) SaveAccount(ctx context.Context, companyID uuid.UUID, a ledger.Account) error {
	return SaveAccount(ctx, s.db, companyID, a)
}

// SaveAccount upserts a into the chart of the company using q, so callers
// already inside a transaction can seed accounts.
func SaveAccount(ctx context.Context, q database.Querier, companyID uuid.UUID, a ledger.Account) error {
	err := q.Run(ctx, `
		INSERT INTO accounts (company_id, code, name, type) VALUES (?, ?, ?, ?)
		ON CONFLICT (company_id, code) DO UPDATE SET name = excluded.name, type = excluded.type`,
		companyID, a.Code, a.Name, string(a.Type),
	)
	if err != nil {
		return fmt.Errorf("saving account %s: %w", a.Code, err)
	}

	return nil
}
