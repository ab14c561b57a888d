package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/libro/internal/export"
	"github.com/MrJamesThe3rd/libro/internal/http/httpx"
	txhttp "github.com/MrJamesThe3rd/libro/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.csv)
	r.Get("/archive", h.archive)
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter, err := txhttp.Filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"registro_%s.csv\"", time.Now().Format("20060102")))

	if _, err := h.svc.Export(r.Context(), companyID, filter, w); err != nil {
		slog.Error("failed to write export", "company_id", companyID, "error", err)
	}
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter, err := txhttp.Filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))

	if err := h.svc.Archive(r.Context(), companyID, filter, w); err != nil {
		slog.Error("failed to create zip", "company_id", companyID, "error", err)
	}
}
