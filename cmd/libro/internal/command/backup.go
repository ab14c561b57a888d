package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/libro/internal/database"
)

type backupCmd struct {
	output string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "write a snapshot of the sqlite store" }
func (*backupCmd) Usage() string {
	return `libro backup -o <file>

  Writes a consistent copy of the whole store. Only the sqlite driver
  supports snapshots.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Snapshot file to write.")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.output == "" {
		return usagef("-o is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return failf("%v", err)
	}

	db, err := database.Open(ctx, cfg.DB.Driver, cfg.DataSource())
	if err != nil {
		return failf("%v", err)
	}
	defer db.Close()

	out, err := os.Create(c.output)
	if err != nil {
		return failf("%v", err)
	}
	defer out.Close()

	n, err := db.Backup(ctx, out)
	if errors.Is(err, database.ErrUnsupported) {
		os.Remove(c.output)
		return failf("backups need DB_DRIVER=sqlite, use pg_dump for postgres")
	}

	if err != nil {
		return failf("backup failed: %v", err)
	}

	fmt.Printf("Wrote %d bytes to %s\n", n, c.output)

	return subcommands.ExitSuccess
}

type restoreCmd struct{}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "replace the sqlite store with a snapshot" }
func (*restoreCmd) Usage() string {
	return `libro restore <file>

  Replaces the configured sqlite file with a snapshot written by backup.
  Stop the API server first.
`
}

func (*restoreCmd) SetFlags(*flag.FlagSet) {}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usagef("exactly one snapshot file is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return failf("%v", err)
	}

	if cfg.DB.Driver != string(database.DialectSQLite) {
		return failf("restore needs DB_DRIVER=sqlite")
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		return failf("%v", err)
	}
	defer in.Close()

	if err := database.Restore(cfg.DataSource(), in); err != nil {
		return failf("restore failed: %v", err)
	}

	// Opening migrates a snapshot taken by an older release.
	db, err := database.Open(ctx, cfg.DB.Driver, cfg.DataSource())
	if err != nil {
		return failf("restored store does not open: %v", err)
	}
	defer db.Close()

	version, err := db.Version(ctx)
	if err != nil {
		return failf("%v", err)
	}

	fmt.Printf("Restored %s at schema version %d\n", cfg.DataSource(), version)

	return subcommands.ExitSuccess
}
