package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var sqliteHeader = []byte("SQLite format 3\x00")

var ErrNotSnapshot = errors.New("not a sqlite snapshot")

// Backup streams a consistent binary snapshot of the whole store to w.
func (d *DB) Backup(ctx context.Context, w io.Writer) (int64, error) {
	if d.dialect != DialectSQLite {
		return 0, fmt.Errorf("backup: %w", ErrUnsupported)
	}

	dir, err := os.MkdirTemp("", "libro-backup-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	snapshot := filepath.Join(dir, "snapshot.db")
	if err := d.Run(ctx, `VACUUM INTO ?`, snapshot); err != nil {
		return 0, fmt.Errorf("vacuum into snapshot: %w", err)
	}

	f, err := os.Open(snapshot)
	if err != nil {
		return 0, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, fmt.Errorf("writing snapshot: %w", err)
	}

	return n, nil
}

// Restore replaces the sqlite file at path with the snapshot read from r.
// The store at path must be closed.
func Restore(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	if !bytes.HasPrefix(data, sqliteHeader) {
		return ErrNotSnapshot
	}

	tmp := path + ".restore"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing store: %w", err)
	}

	return nil
}
