package report

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/libro/internal/http/httpx"
	txhttp "github.com/MrJamesThe3rd/libro/internal/http/transaction"
	"github.com/MrJamesThe3rd/libro/internal/importer"
	"github.com/MrJamesThe3rd/libro/internal/importer/bank"
	"github.com/MrJamesThe3rd/libro/internal/kpi"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
	"github.com/MrJamesThe3rd/libro/internal/reconcile"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type Handler struct {
	transactions *transaction.Service
	ledger       *ledger.Service
	importer     *importer.Service
	reconcile    *reconcile.Service
	maxUpload    int64
}

func NewHandler(
	transactions *transaction.Service,
	ledgerSvc *ledger.Service,
	importSvc *importer.Service,
	reconcileSvc *reconcile.Service,
	maxUpload int64,
) *Handler {
	return &Handler{
		transactions: transactions,
		ledger:       ledgerSvc,
		importer:     importSvc,
		reconcile:    reconcileSvc,
		maxUpload:    maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/kpi", h.kpi)
	r.Get("/pnl", h.pnl)
	r.Get("/balance", h.balance)
	r.Post("/reconcile", h.reconcileStatement)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) ([]*transaction.Transaction, bool) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	filter, err := txhttp.Filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	txs, err := h.transactions.List(r.Context(), companyID, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	return txs, true
}

func (h *Handler) kpi(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.list(w, r)
	if !ok {
		return
	}

	httpx.JSON(w, http.StatusOK, toStatsResponse(kpi.Aggregate(txs)))
}

func (h *Handler) pnl(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.list(w, r)
	if !ok {
		return
	}

	rows := ledger.MonthlyPnL(txs)

	resp := pnlResponse{Months: make([]monthResponse, len(rows)), Total: toMonthResponse(ledger.Totals(rows))}
	for i, row := range rows {
		resp.Months[i] = toMonthResponse(row)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, end, err := httpx.DateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bal, err := h.ledger.Balance(r.Context(), companyID, start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusOK, toBalanceResponse(bal))
}

func (h *Handler) reconcileStatement(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("statement")
	if err != nil {
		http.Error(w, "statement field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	lines, err := h.importer.ImportBank(file)
	if err != nil {
		if errors.Is(err, bank.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	res, err := h.reconcile.Reconcile(r.Context(), companyID, lines)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusOK, toReconcileResponse(res))
}
