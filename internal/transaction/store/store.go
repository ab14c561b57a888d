package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, company_id, type, fecha, original_date, rut, razon_social, folio, tipo_doc,
	monto_neto, monto_exento, monto_total, monto_retencion, source_file, created_at
`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx        transaction.Transaction
		typeStr   string
		retencion sql.NullFloat64
		createdAt string
	)

	if err := s.Scan(
		&tx.ID, &tx.CompanyID, &typeStr, &tx.Fecha, &tx.OriginalDate, &tx.RUT, &tx.RazonSocial, &tx.Folio, &tx.TipoDoc,
		&tx.MontoNeto, &tx.MontoExento, &tx.MontoTotal, &retencion, &tx.SourceFile, &createdAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.FlowType(typeStr)

	if retencion.Valid {
		tx.MontoRetencion = &retencion.Float64
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		tx.CreatedAt = t
	}

	return &tx, nil
}

const insertTransaction = `
	INSERT INTO transactions (id, company_id, type, fecha, original_date, rut, razon_social, folio, tipo_doc,
		monto_neto, monto_exento, monto_total, monto_retencion, source_file, seq, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func insert(ctx context.Context, q database.Querier, tx *transaction.Transaction, seq int) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	var retencion sql.NullFloat64
	if tx.MontoRetencion != nil {
		retencion = sql.NullFloat64{Float64: *tx.MontoRetencion, Valid: true}
	}

	return q.Run(ctx, insertTransaction,
		tx.ID, tx.CompanyID, string(tx.Type), tx.Fecha, tx.OriginalDate, tx.RUT, tx.RazonSocial, tx.Folio, tx.TipoDoc,
		tx.MontoNeto, tx.MontoExento, tx.MontoTotal, retencion, tx.SourceFile, seq,
		tx.CreatedAt.Format(time.RFC3339Nano),
	)
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := insert(ctx, s.db, tx, 0); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, companyID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE company_id = ? AND id = ?`

	tx, err := scanTransaction(s.db.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, companyID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE company_id = ?`
	args := []any{companyID}

	if filter.Type != nil {
		query += " AND type = ?"

		args = append(args, string(*filter.Type))
	}

	if filter.StartDate != "" {
		query += " AND fecha >= ?"

		args = append(args, filter.StartDate)
	}

	if filter.EndDate != "" {
		query += " AND fecha <= ?"

		args = append(args, filter.EndDate)
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		query += " AND (LOWER(rut) LIKE ? OR LOWER(razon_social) LIKE ? OR folio LIKE ?)"

		like := "%" + strings.ToLower(s) + "%"
		args = append(args, like, like, like)
	}

	query += " ORDER BY fecha ASC, created_at ASC, seq ASC"

	return s.list(ctx, s.db, query, args...)
}

func (s *Store) list(ctx context.Context, q database.Querier, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) CountTransactions(ctx context.Context, companyID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE company_id = ?`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return n, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, companyID, id uuid.UUID) error {
	if err := s.db.Run(ctx, `DELETE FROM transactions WHERE company_id = ? AND id = ?`, companyID, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func importLockKey(companyID uuid.UUID, minDate, maxDate string) int64 {
	h := fnv.New64a()
	h.Write(companyID[:])
	h.Write([]byte(minDate))
	h.Write([]byte{0})
	h.Write([]byte(maxDate))

	return int64(h.Sum64())
}

type importTx struct {
	store *Store
	tx    *database.Tx
}

// BeginImport opens the write transaction for one import. On postgres,
// concurrent imports touching the same company and range are serialized
// with an advisory lock; sqlite already has a single writer.
func (s *Store) BeginImport(ctx context.Context, companyID uuid.UUID, minDate, maxDate string) (transaction.ImportTx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if tx.Dialect() == database.DialectPostgres {
		if err := tx.Run(ctx, "SELECT pg_advisory_xact_lock(?)", importLockKey(companyID, minDate, maxDate)); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("acquiring import lock: %w", err)
		}
	}

	return &importTx{store: s, tx: tx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, companyID uuid.UUID, txs []*transaction.Transaction) ([]*transaction.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	minDate := txs[0].Fecha
	maxDate := txs[0].Fecha
	keySet := make(map[transaction.Key]struct{}, len(txs))

	for _, tx := range txs {
		minDate = min(minDate, tx.Fecha)
		maxDate = max(maxDate, tx.Fecha)
		keySet[transaction.DuplicateKey(tx)] = struct{}{}
	}

	query := `SELECT ` + selectColumns + ` FROM transactions
		WHERE company_id = ? AND fecha >= ? AND fecha <= ?
		ORDER BY fecha ASC, created_at ASC, seq ASC`

	existing, err := itx.store.list(ctx, itx.tx, query, companyID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	var duplicates []*transaction.Transaction

	for _, tx := range existing {
		if _, found := keySet[transaction.DuplicateKey(tx)]; found {
			duplicates = append(duplicates, tx)
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	now := time.Now().UTC()

	for i, tx := range txs {
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}

		if err := insert(ctx, itx.tx, tx, i); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
