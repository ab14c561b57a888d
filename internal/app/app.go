// Package app wires the stores and services over one database handle.
package app

import (
	"net/http"

	"github.com/MrJamesThe3rd/libro/internal/company"
	companyStore "github.com/MrJamesThe3rd/libro/internal/company/store"
	"github.com/MrJamesThe3rd/libro/internal/config"
	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/entity"
	entityStore "github.com/MrJamesThe3rd/libro/internal/entity/store"
	"github.com/MrJamesThe3rd/libro/internal/export"
	libroHttp "github.com/MrJamesThe3rd/libro/internal/http"
	"github.com/MrJamesThe3rd/libro/internal/http/auth"
	backupHandler "github.com/MrJamesThe3rd/libro/internal/http/backup"
	companyHandler "github.com/MrJamesThe3rd/libro/internal/http/company"
	entityHandler "github.com/MrJamesThe3rd/libro/internal/http/entity"
	exportHandler "github.com/MrJamesThe3rd/libro/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/libro/internal/http/importcsv"
	ledgerHandler "github.com/MrJamesThe3rd/libro/internal/http/ledger"
	reportHandler "github.com/MrJamesThe3rd/libro/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/libro/internal/http/transaction"
	"github.com/MrJamesThe3rd/libro/internal/importer"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/libro/internal/ledger/store"
	"github.com/MrJamesThe3rd/libro/internal/reconcile"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
	txStore "github.com/MrJamesThe3rd/libro/internal/transaction/store"
)

type Services struct {
	DB           *database.DB
	Companies    *company.Service
	Transactions *transaction.Service
	Entities     *entity.Service
	Ledger       *ledger.Service
	Importer     *importer.Service
	Reconcile    *reconcile.Service
	Export       *export.Service
}

func New(cfg *config.Config, db *database.DB) *Services {
	var (
		transactionService = transaction.NewService(txStore.New(db))
		entityService      = entity.NewService(entityStore.New(db))
		ledgerService      = ledger.NewService(ledgerStore.New(db))
	)

	return &Services{
		DB:           db,
		Companies:    company.NewService(companyStore.New(db)),
		Transactions: transactionService,
		Entities:     entityService,
		Ledger:       ledgerService,
		Importer:     importer.NewService(transactionService, entityService),
		Reconcile:    reconcile.NewService(ledgerService, cfg.Ledger.BankAccountCode),
		Export:       export.NewService(transactionService),
	}
}

// Router builds the HTTP API over s.
func (s *Services) Router(cfg *config.Config) http.Handler {
	handlers := libroHttp.Handlers{
		Companies:    companyHandler.NewHandler(s.Companies),
		Transactions: txHandler.NewHandler(s.Transactions),
		Imports: importHandler.NewHandler(s.Importer, importHandler.Options{
			MaxUpload:  cfg.Import.MaxUpload,
			StagingTTL: cfg.Import.StagingTTL,
			Strict:     cfg.Import.Strict,
		}),
		Reports:  reportHandler.NewHandler(s.Transactions, s.Ledger, s.Importer, s.Reconcile, cfg.Import.MaxUpload),
		Ledger:   ledgerHandler.NewHandler(s.Ledger),
		Exports:  exportHandler.NewHandler(s.Export),
		Entities: entityHandler.NewHandler(s.Entities),
		Backup:   backupHandler.NewHandler(s.DB),
	}

	return libroHttp.New(libroHttp.Options{
		Auth:        auth.New(cfg.Auth.Secret),
		CORSOrigins: cfg.Server.CORSOrigins,
	}, handlers)
}
