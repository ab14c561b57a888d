package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var ErrUnsupported = errors.New("operation not supported by this driver")

// Querier is implemented by both DB and Tx so stores can run the same
// statements inside or outside a transaction.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
	Run(ctx context.Context, query string, args ...any) error
	Dialect() Dialect
}

// DB is the store handle passed to every component that persists data.
// Statements are written with ? placeholders and rebound for postgres.
type DB struct {
	sql     *sql.DB
	dialect Dialect
}

// Open connects to the store and applies pending migrations.
func Open(ctx context.Context, driver, dataSource string) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch Dialect(driver) {
	case DialectSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(dataSource))
		if err == nil {
			// sqlite has a single writer.
			db.SetMaxOpenConns(1)
		}
	case DialectPostgres:
		db, err = sql.Open("pgx", dataSource)
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
		}
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}

	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{sql: db, dialect: Dialect(driver)}

	if err := d.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) Dialect() Dialect { return d.dialect }

func (d *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.sql.QueryContext(ctx, rebind(d.dialect, query), args...)
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.sql.QueryRowContext(ctx, rebind(d.dialect, query), args...)
}

func (d *DB) Run(ctx context.Context, query string, args ...any) error {
	_, err := d.sql.ExecContext(ctx, rebind(d.dialect, query), args...)
	return err
}

// Begin starts an explicit transaction. Callers must Commit or Rollback.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &Tx{tx: tx, dialect: d.dialect}, nil
}

// WithTx runs fn inside begin/commit, rolling back when fn fails.
func (d *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *Tx) Dialect() Dialect { return t.dialect }

func (t *Tx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, rebind(t.dialect, query), args...)
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, rebind(t.dialect, query), args...)
}

func (t *Tx) Run(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, rebind(t.dialect, query), args...)
	return err
}

func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback is safe to call after Commit.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	return err
}

// rebind turns ? placeholders into $1..$n for postgres. Question marks inside
// single-quoted literals are left alone.
func rebind(d Dialect, query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var (
		sb      strings.Builder
		n       int
		inQuote bool
	)

	sb.Grow(len(query) + 8)

	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			sb.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
