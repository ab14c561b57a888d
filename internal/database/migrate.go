package database

import (
	"context"
	"fmt"
	"log/slog"
)

// migrations are applied in order; each entry is one schema version made of
// single statements (pgx rejects multi-statement prepared exec).
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS companies (
			id TEXT PRIMARY KEY,
			rut TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			PRIMARY KEY (company_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			rut TEXT NOT NULL,
			name TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (company_id, rut)
		)`,
		`CREATE TABLE IF NOT EXISTS vouchers (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			fecha TEXT NOT NULL,
			glosa TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id TEXT PRIMARY KEY,
			voucher_id TEXT NOT NULL REFERENCES vouchers(id) ON DELETE CASCADE,
			company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			line INTEGER NOT NULL,
			account_code TEXT NOT NULL,
			debe DOUBLE PRECISION NOT NULL,
			haber DOUBLE PRECISION NOT NULL,
			glosa TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			fecha TEXT NOT NULL,
			original_date TEXT NOT NULL,
			rut TEXT NOT NULL,
			razon_social TEXT NOT NULL,
			folio TEXT NOT NULL,
			tipo_doc TEXT NOT NULL,
			monto_neto DOUBLE PRECISION NOT NULL,
			monto_exento DOUBLE PRECISION NOT NULL,
			monto_total DOUBLE PRECISION NOT NULL,
			monto_retencion DOUBLE PRECISION,
			source_file TEXT NOT NULL,
			seq INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS transactions_company_fecha ON transactions (company_id, fecha)`,
		`CREATE INDEX IF NOT EXISTS ledger_entries_voucher ON ledger_entries (voucher_id)`,
	},
}

// Migrate brings an empty or older store up to the latest schema version.
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.Run(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	var current int
	if err := d.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1

		err := d.WithTx(ctx, func(tx *Tx) error {
			for _, stmt := range migrations[i] {
				if err := tx.Run(ctx, stmt); err != nil {
					return err
				}
			}

			return tx.Run(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version)
		})
		if err != nil {
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		slog.Info("applied migration", "version", version, "dialect", d.dialect)
	}

	return nil
}

// Version reports the applied schema version.
func (d *DB) Version(ctx context.Context) (int, error) {
	var v int
	if err := d.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	return v, nil
}

// Reset deletes every row of every company, leaving the schema in place.
func (d *DB) Reset(ctx context.Context) error {
	tables := []string{"ledger_entries", "vouchers", "transactions", "entities", "accounts", "companies"}

	return d.WithTx(ctx, func(tx *Tx) error {
		for _, t := range tables {
			if err := tx.Run(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("clearing %s: %w", t, err)
			}
		}

		return nil
	})
}
