package transaction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/libro/internal/http/httpx"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Type           transaction.FlowType `json:"type"`
	Fecha          string               `json:"fecha"`
	RUT            string               `json:"rut"`
	RazonSocial    string               `json:"razon_social"`
	Folio          string               `json:"folio"`
	TipoDoc        string               `json:"tipo_doc"`
	MontoNeto      float64              `json:"monto_neto"`
	MontoExento    float64              `json:"monto_exento"`
	MontoTotal     float64              `json:"monto_total"`
	MontoRetencion *float64             `json:"monto_retencion,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), companyID, transaction.CreateParams{
		Type:           req.Type,
		Fecha:          req.Fecha,
		RUT:            req.RUT,
		RazonSocial:    req.RazonSocial,
		Folio:          req.Folio,
		TipoDoc:        req.TipoDoc,
		MontoNeto:      req.MontoNeto,
		MontoExento:    req.MontoExento,
		MontoTotal:     req.MontoTotal,
		MontoRetencion: req.MontoRetencion,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	httpx.JSON(w, http.StatusCreated, ToResponse(tx))
}

// Filter reads the list filters shared by the listing, report and export
// routes: type, start_date, end_date and q.
func Filter(r *http.Request) (transaction.ListFilter, error) {
	start, end, err := httpx.DateRange(r)
	if err != nil {
		return transaction.ListFilter{}, err
	}

	filter := transaction.ListFilter{
		StartDate: start,
		EndDate:   end,
		Search:    r.URL.Query().Get("q"),
	}

	if s := r.URL.Query().Get("type"); s != "" {
		flow, err := transaction.ParseFlowType(s)
		if err != nil {
			return transaction.ListFilter{}, err
		}

		filter.Type = &flow
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter, err := Filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), companyID, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusOK, ToResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := httpx.ID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	httpx.JSON(w, http.StatusOK, ToResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := httpx.ID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), companyID, id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
