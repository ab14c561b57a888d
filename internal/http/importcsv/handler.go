package importcsv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/MrJamesThe3rd/libro/internal/http/httpx"
	txhttp "github.com/MrJamesThe3rd/libro/internal/http/transaction"
	"github.com/MrJamesThe3rd/libro/internal/importer"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	staged    *cache.Cache
	maxUpload int64
	strict    bool
}

type Options struct {
	MaxUpload  int64
	StagingTTL time.Duration
	Strict     bool
}

func NewHandler(importSvc *importer.Service, opts Options) *Handler {
	return &Handler{
		importSvc: importSvc,
		staged:    cache.New(opts.StagingTTL, 2*opts.StagingTTL),
		maxUpload: opts.MaxUpload,
		strict:    opts.Strict,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/{token}/confirm", h.confirmImport)
}

// staging is an import waiting for the caller's duplicate decision.
type staging struct {
	companyID uuid.UUID
	result    *transaction.ImportResult
}

type fileResponse struct {
	Name     string               `json:"name"`
	Flow     transaction.FlowType `json:"flow"`
	Charset  string               `json:"charset"`
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
}

type failureResponse struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type importSuccessResponse struct {
	Imported     int               `json:"imported"`
	Transactions []txhttp.Response `json:"transactions"`
	Files        []fileResponse    `json:"files,omitempty"`
	Failures     []failureResponse `json:"failures,omitempty"`
	Errors       []string          `json:"errors,omitempty"`
}

type conflictDTO struct {
	Incoming txhttp.Response `json:"incoming"`
	Existing txhttp.Response `json:"existing"`
}

type importConflictResponse struct {
	Token           string            `json:"token"`
	DuplicatesFound int               `json:"duplicates_found"`
	New             []txhttp.Response `json:"new"`
	Conflicts       []conflictDTO     `json:"conflicts"`
	Failures        []failureResponse `json:"failures,omitempty"`
	Errors          []string          `json:"errors,omitempty"`
}

type confirmRequest struct {
	Decision string `json:"decision"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := h.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	files, err := readFiles(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := h.importSvc.ImportFiles(r.Context(), companyID, files, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := h.importSvc.Store(r.Context(), companyID, batch.Transactions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	failures := toFailures(batch.Failures)
	rowErrors := transaction.SummarizeErrors(batch.Errors, transaction.ErrorSummaryLimit)

	if len(result.Conflicts) > 0 {
		token := uuid.NewString()
		h.staged.Set(token, &staging{companyID: companyID, result: result}, cache.DefaultExpiration)

		resp := importConflictResponse{
			Token:           token,
			DuplicatesFound: result.DuplicatesFound,
			New:             txhttp.ToResponseList(result.New),
			Conflicts:       make([]conflictDTO, 0, len(result.Conflicts)),
			Failures:        failures,
			Errors:          rowErrors,
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: txhttp.ToResponse(c.Incoming),
				Existing: txhttp.ToResponse(c.Existing),
			})
		}

		httpx.JSON(w, http.StatusConflict, resp)

		return
	}

	resp := toSuccessResponse(result.Imported)
	resp.Failures = failures
	resp.Errors = rowErrors

	for _, f := range batch.Files {
		resp.Files = append(resp.Files, fileResponse{
			Name:     f.Name,
			Flow:     f.Flow,
			Charset:  string(f.Charset),
			Imported: f.Imported,
			Skipped:  f.Skipped,
		})
	}

	httpx.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) options(r *http.Request) (importer.Options, error) {
	opts := importer.Options{Strict: h.strict}

	if s := r.FormValue("flow"); s != "" {
		flow, err := transaction.ParseFlowType(s)
		if err != nil {
			return opts, err
		}

		opts.Flow = flow
	}

	if s := r.FormValue("strict"); s != "" {
		strict, err := strconv.ParseBool(s)
		if err != nil {
			return opts, fmt.Errorf("invalid strict value %q", s)
		}

		opts.Strict = strict
	}

	return opts, nil
}

func readFiles(r *http.Request) ([]importer.File, error) {
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, errors.New("files field is required")
	}

	files := make([]importer.File, 0, len(headers))

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}

		data, err := io.ReadAll(f)
		f.Close()

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}

		files = append(files, importer.File{Name: fh.Filename, Data: data})
	}

	return files, nil
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	companyID, err := httpx.CompanyID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	decision, err := transaction.ParseDecision(req.Decision)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token := chi.URLParam(r, "token")

	v, ok := h.staged.Get(token)
	if !ok {
		http.Error(w, "import not found or expired", http.StatusNotFound)
		return
	}

	staged := v.(*staging)
	if staged.companyID != companyID {
		http.Error(w, "import not found or expired", http.StatusNotFound)
		return
	}

	h.staged.Delete(token)

	txs, err := h.importSvc.Resolve(r.Context(), companyID, staged.result, decision)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: txhttp.ToResponseList(txs),
	}
}

func toFailures(failures []importer.FileFailure) []failureResponse {
	out := make([]failureResponse, 0, len(failures))
	for _, f := range failures {
		out = append(out, failureResponse{Name: f.Name, Error: f.Err.Error()})
	}

	return out
}
