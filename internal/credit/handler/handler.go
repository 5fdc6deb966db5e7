package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"credito/internal/credit/models"
	dErrors "credito/pkg/domain-errors"
	"credito/pkg/platform/httputil"
	"credito/pkg/requestcontext"
)

// BasePath is where the credit routes are mounted.
const BasePath = "/api/v1/creditos"

// Service defines the credit operations exposed over HTTP.
type Service interface {
	ListAll(ctx context.Context, req models.PageRequest) (models.Page[*models.Credit], error)
	GetByID(ctx context.Context, id int64) (*models.Credit, error)
	GetByConstitutedNumber(ctx context.Context, number string) (*models.Credit, error)
	GetByNfseNumber(ctx context.Context, nfse string) (*models.Credit, error)
	ListByStatus(ctx context.Context, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error)
	ListByType(ctx context.Context, creditType models.CreditType, req models.PageRequest) (models.Page[*models.Credit], error)
	ListByCompanyTaxID(ctx context.Context, taxID string) ([]*models.Credit, error)
	ListByConstitutionDateRange(ctx context.Context, start, end models.Date) ([]*models.Credit, error)
	ListByCompanyAndStatus(ctx context.Context, taxID string, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error)
	SearchByTerm(ctx context.Context, term string, req models.PageRequest) (models.Page[*models.Credit], error)
	Create(ctx context.Context, in models.CreditInput) (*models.Credit, error)
	Update(ctx context.Context, id int64, in models.CreditInput) (*models.Credit, error)
	ChangeStatus(ctx context.Context, id int64, status models.Status) (*models.Credit, error)
	Delete(ctx context.Context, id int64) error
}

// Handler handles the credit endpoints.
type Handler struct {
	credits Service
	logger  *slog.Logger
}

// New creates a new credit Handler.
func New(credits Service, logger *slog.Logger) *Handler {
	return &Handler{credits: credits, logger: logger}
}

// Register registers the credit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/", h.handleListAll)
		r.Post("/", h.handleCreate)
		r.Get("/numero/{numero}", h.handleGetByNumber)
		r.Get("/nfse/{nfse}", h.handleGetByNfse)
		r.Get("/status/{status}", h.handleListByStatus)
		r.Get("/tipo/{tipo}", h.handleListByType)
		r.Get("/cnpj/{cnpj}", h.handleListByCompany)
		r.Get("/cnpj/{cnpj}/status/{status}", h.handleListByCompanyAndStatus)
		r.Get("/periodo", h.handleListByPeriod)
		r.Get("/buscar", h.handleSearch)
		r.Get("/{id}", h.handleGetByID)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}/status", h.handleChangeStatus)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err == nil {
		var sort models.Sort
		sort, err = sortParams(r)
		req = req.WithSort(sort)
	}
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	page, err := h.credits.ListAll(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	c, err := h.credits.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponse(c))
}

func (h *Handler) handleGetByNumber(w http.ResponseWriter, r *http.Request) {
	c, err := h.credits.GetByConstitutedNumber(r.Context(), chi.URLParam(r, "numero"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponse(c))
}

func (h *Handler) handleGetByNfse(w http.ResponseWriter, r *http.Request) {
	c, err := h.credits.GetByNfseNumber(r.Context(), chi.URLParam(r, "nfse"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponse(c))
}

func (h *Handler) handleListByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := models.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	page, err := h.credits.ListByStatus(r.Context(), status, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) handleListByType(w http.ResponseWriter, r *http.Request) {
	creditType, err := models.ParseCreditType(chi.URLParam(r, "tipo"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	page, err := h.credits.ListByType(r.Context(), creditType, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) handleListByCompany(w http.ResponseWriter, r *http.Request) {
	list, err := h.credits.ListByCompanyTaxID(r.Context(), chi.URLParam(r, "cnpj"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponses(list))
}

func (h *Handler) handleListByCompanyAndStatus(w http.ResponseWriter, r *http.Request) {
	status, err := models.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	page, err := h.credits.ListByCompanyAndStatus(r.Context(), chi.URLParam(r, "cnpj"), status, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) handleListByPeriod(w http.ResponseWriter, r *http.Request) {
	start, err := requiredDate(r, "dataInicio")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	end, err := requiredDate(r, "dataFim")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	list, err := h.credits.ListByConstitutionDateRange(r.Context(), start, end)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponses(list))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("termo") {
		h.badRequest(w, r, dErrors.New(dErrors.CodeBadRequest, "termo is required"))
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	page, err := h.credits.SearchByTerm(r.Context(), q.Get("termo"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateCreditRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.credits.Create(ctx, req.ToInput())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCreditResponse(c))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateCreditRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.credits.Update(ctx, id, req.ToInput())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponse(c))
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	raw := r.URL.Query().Get("novoStatus")
	if raw == "" {
		h.badRequest(w, r, dErrors.New(dErrors.CodeBadRequest, "novoStatus is required"))
		return
	}
	status, err := models.ParseStatus(raw)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	c, err := h.credits.ChangeStatus(r.Context(), id, status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponse(c))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.credits.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service failures onto the public contract: input
// problems are 400, everything else (not found, duplicate number, store
// failures) is 404 with the error message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest:
		h.badRequest(w, r, err)
		return
	case dErrors.CodeNotFound, dErrors.CodeConflict:
		h.logger.InfoContext(ctx, "credit request rejected",
			"request_id", requestcontext.RequestID(ctx),
			"code", code,
			"error", err,
		)
	default:
		h.logger.ErrorContext(ctx, "credit request failed",
			"request_id", requestcontext.RequestID(ctx),
			"code", code,
			"error", err,
		)
	}
	httputil.WriteMessage(w, http.StatusNotFound, dErrors.Message(err))
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, "invalid credit request",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteMessage(w, http.StatusBadRequest, dErrors.Message(err))
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid credit id: "+raw)
	}
	return id, nil
}

func pageRequest(r *http.Request) (models.PageRequest, error) {
	page, err := intParam(r, "page", 0)
	if err != nil {
		return models.PageRequest{}, err
	}
	size, err := intParam(r, "size", models.DefaultPageSize)
	if err != nil {
		return models.PageRequest{}, err
	}
	return models.NewPageRequest(page, size)
}

// sortParams reads sortBy and direction; list-all defaults to newest first.
func sortParams(r *http.Request) (models.Sort, error) {
	q := r.URL.Query()
	sort := models.Sort{Field: models.SortByID, Direction: models.Desc}
	if raw := q.Get("sortBy"); raw != "" {
		field, err := models.ParseSortField(raw)
		if err != nil {
			return models.Sort{}, err
		}
		sort.Field = field
	}
	if raw := q.Get("direction"); raw != "" {
		dir, err := models.ParseDirection(raw)
		if err != nil {
			return models.Sort{}, err
		}
		sort.Direction = dir
	}
	return sort, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid "+name+": "+raw)
	}
	return v, nil
}

func requiredDate(r *http.Request, name string) (models.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return models.Date{}, dErrors.New(dErrors.CodeBadRequest, name+" is required")
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, dErrors.New(dErrors.CodeBadRequest, "invalid "+name+": "+raw)
	}
	return d, nil
}
