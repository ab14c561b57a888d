package entity

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/libro/internal/entity"
	"github.com/MrJamesThe3rd/libro/internal/http/httpx"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type Handler struct {
	svc *entity.Service
}

func NewHandler(svc *entity.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{rut}", h.suggest)
	r.Put("/{rut}", h.learn)
}

type entityResponse struct {
	RUT  string `json:"rut"`
	Name string `json:"name"`
}

type learnRequest struct {
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entities, err := h.svc.List(r.Context(), companyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]entityResponse, len(entities))
	for i, e := range entities {
		resp[i] = entityResponse{RUT: e.RUT, Name: e.Name}
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rut := transaction.NormalizeRUT(chi.URLParam(r, "rut"))

	name, err := h.svc.Suggest(r.Context(), companyID, rut)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if name == "" {
		http.Error(w, "entity not found", http.StatusNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, entityResponse{RUT: rut, Name: name})
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rut := transaction.NormalizeRUT(chi.URLParam(r, "rut"))

	if err := h.svc.Learn(r.Context(), companyID, rut, req.Name); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
