package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Snapshotter writes a binary copy of the whole store.
type Snapshotter interface {
	Backup(ctx context.Context, w io.Writer) (int64, error)
}

type Handler struct {
	db Snapshotter
}

func NewHandler(db Snapshotter) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.sqlite3")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"libro_%s.db\"", time.Now().Format("20060102_150405")))

	n, err := h.db.Backup(r.Context(), w)
	if err != nil {
		slog.Error("failed to write backup", "error", err)

		if n == 0 {
			w.Header().Del("Content-Disposition")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	slog.Info("backup downloaded", "bytes", n)
}
