// Package command implements the libro command line over the local store.
package command

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/app"
	"github.com/MrJamesThe3rd/libro/internal/company"
	"github.com/MrJamesThe3rd/libro/internal/config"
	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/logger"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

// Register adds every libro subcommand to c.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "registry")
	c.Register(&exportCmd{}, "registry")

	c.Register(&kpiCmd{}, "reports")
	c.Register(&pnlCmd{}, "reports")
	c.Register(&balanceCmd{}, "reports")
	c.Register(&reconcileCmd{}, "reports")

	c.Register(&backupCmd{}, "store")
	c.Register(&restoreCmd{}, "store")
	c.Register(&tokenCmd{}, "store")
}

var companyFlag = flag.String("company", "", "Company id. Defaults to the only company of the store, created from COMPANY_RUT and COMPANY_NAME.")

type session struct {
	cfg      *config.Config
	db       *database.DB
	services *app.Services
	company  *company.Company
}

func (s *session) Close() error {
	return s.db.Close()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.NewWithWriter(os.Stderr, cfg.App.LogLevel)

	return cfg, nil
}

// open connects to the configured store and resolves the working company.
func open(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.DB.Driver, cfg.DataSource())
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, db: db, services: app.New(cfg, db)}

	if *companyFlag != "" {
		id, err := uuid.Parse(*companyFlag)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid -company: %w", err)
		}

		s.company, err = s.services.Companies.Get(ctx, id)
		if err != nil {
			db.Close()
			return nil, err
		}

		return s, nil
	}

	s.company, err = s.services.Companies.Default(ctx, cfg.Company.RUT, cfg.Company.Name)
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// dateRange holds the -from and -to flags shared by the reports.
type dateRange struct {
	from string
	to   string
}

func (d *dateRange) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.from, "from", "", "First day of the period, YYYY-MM-DD. Empty leaves it open.")
	f.StringVar(&d.to, "to", "", "Last day of the period, YYYY-MM-DD. Empty leaves it open.")
}

func (d *dateRange) validate() error {
	for _, v := range []string{d.from, d.to} {
		if v == "" {
			continue
		}

		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", v)
		}
	}

	return nil
}

func (d *dateRange) filter() transaction.ListFilter {
	return transaction.ListFilter{StartDate: d.from, EndDate: d.to}
}

func failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

func usagef(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitUsageError
}
