package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/libro/internal/http/httpx"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) VoucherRoutes(r chi.Router) {
	r.Post("/", h.createVoucher)
	r.Get("/", h.listVouchers)
	r.Delete("/{id}", h.deleteVoucher)
}

func (h *Handler) AccountRoutes(r chi.Router) {
	r.Get("/", h.listAccounts)
	r.Put("/{code}", h.saveAccount)
}

type entryDTO struct {
	AccountCode string  `json:"account_code"`
	Debe        float64 `json:"debe"`
	Haber       float64 `json:"haber"`
	Glosa       string  `json:"glosa,omitempty"`
}

type createVoucherRequest struct {
	Fecha   string     `json:"fecha"`
	Glosa   string     `json:"glosa"`
	Entries []entryDTO `json:"entries"`
}

type voucherResponse struct {
	ID        uuid.UUID  `json:"id"`
	Number    int        `json:"number"`
	Fecha     string     `json:"fecha"`
	Glosa     string     `json:"glosa"`
	Entries   []entryDTO `json:"entries"`
	CreatedAt time.Time  `json:"created_at"`
}

type accountDTO struct {
	Code string             `json:"code"`
	Name string             `json:"name"`
	Type ledger.AccountType `json:"type"`
}

func toVoucherResponse(v *ledger.Voucher) voucherResponse {
	resp := voucherResponse{
		ID:        v.ID,
		Number:    v.Number,
		Fecha:     v.Fecha,
		Glosa:     v.Glosa,
		Entries:   make([]entryDTO, len(v.Entries)),
		CreatedAt: v.CreatedAt,
	}

	for i, e := range v.Entries {
		resp.Entries[i] = entryDTO{AccountCode: e.AccountCode, Debe: e.Debe, Haber: e.Haber, Glosa: e.Glosa}
	}

	return resp
}

func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req createVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := ledger.CreateVoucherParams{Fecha: req.Fecha, Glosa: req.Glosa}
	for _, e := range req.Entries {
		params.Entries = append(params.Entries, ledger.Entry{AccountCode: e.AccountCode, Debe: e.Debe, Haber: e.Haber, Glosa: e.Glosa})
	}

	v, err := h.svc.CreateVoucher(r.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidVoucher) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	httpx.JSON(w, http.StatusCreated, toVoucherResponse(v))
}

func (h *Handler) listVouchers(w http.ResponseWriter, r *http.Request) {
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

	vouchers, err := h.svc.ListVouchers(r.Context(), companyID, start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]voucherResponse, len(vouchers))
	for i, v := range vouchers {
		resp[i] = toVoucherResponse(v)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteVoucher(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteVoucher(r.Context(), companyID, id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "voucher not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	accounts, err := h.svc.ListAccounts(r.Context(), companyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]accountDTO, len(accounts))
	for i, a := range accounts {
		resp[i] = accountDTO{Code: a.Code, Name: a.Name, Type: a.Type}
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) saveAccount(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req accountDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.svc.SaveAccount(r.Context(), companyID, ledger.Account{
		Code: chi.URLParam(r, "code"),
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	httpx.JSON(w, http.StatusOK, accountDTO{Code: a.Code, Name: a.Name, Type: a.Type})
}
