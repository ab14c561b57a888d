package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/libro/internal/http/auth"
	"github.com/MrJamesThe3rd/libro/internal/http/backup"
	"github.com/MrJamesThe3rd/libro/internal/http/company"
	"github.com/MrJamesThe3rd/libro/internal/http/entity"
	"github.com/MrJamesThe3rd/libro/internal/http/export"
	"github.com/MrJamesThe3rd/libro/internal/http/importcsv"
	"github.com/MrJamesThe3rd/libro/internal/http/ledger"
	"github.com/MrJamesThe3rd/libro/internal/http/report"
	"github.com/MrJamesThe3rd/libro/internal/http/transaction"
)

type Handlers struct {
	Companies    *company.Handler
	Transactions *transaction.Handler
	Imports      *importcsv.Handler
	Reports      *report.Handler
	Ledger       *ledger.Handler
	Exports      *export.Handler
	Entities     *entity.Handler
	Backup       *backup.Handler
}

type Options struct {
	// Auth may be nil, which leaves every route open.
	Auth        *auth.Authenticator
	CORSOrigins []string
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	a := opts.Auth

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(a.Middleware)

		r.With(a.RequireAdmin).Route("/backup", h.Backup.Routes)

		r.Route("/companies", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(a.RequireAdmin)
				r.Use(middleware.AllowContentType("application/json"))
				h.Companies.Routes(r)
			})

			r.Route("/{companyID}", func(r chi.Router) {
				r.Use(a.RequireCompany)

				h.Companies.CompanyRoutes(r)

				r.Route("/transactions", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Transactions.Routes(r)
				})

				r.Route("/import", func(r chi.Router) {
					r.Use(middleware.AllowContentType("multipart/form-data", "application/json"))
					h.Imports.Routes(r)
				})

				r.Route("/reports", h.Reports.Routes)

				r.Route("/vouchers", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Ledger.VoucherRoutes(r)
				})

				r.Route("/accounts", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Ledger.AccountRoutes(r)
				})

				r.Route("/export", h.Exports.Routes)
				r.Route("/entities", h.Entities.Routes)
			})
		})
	})

	return router
}
