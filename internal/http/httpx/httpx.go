// Package httpx holds the request and response helpers shared by the API
// handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func CompanyID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		return uuid.Nil, errors.New("invalid company id")
	}

	return id, nil
}

func ID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}

	return id, nil
}

// DateRange reads the inclusive start_date and end_date query parameters.
// Missing values are returned empty.
func DateRange(r *http.Request) (string, string, error) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")

	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}

		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return "", "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
	}

	return start, end, nil
}
