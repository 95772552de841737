package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ocpulse/internal/engine"
	apierrors "ocpulse/internal/errors"
)

// ReconcileHandler handles reconciliation batch uploads.
type ReconcileHandler struct {
	service      ReconciliationServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(service ReconciliationServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReconcileHandler {
	return &ReconcileHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "reconcile_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the reconciliation routes.
func (h *ReconcileHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Reconcile)
	return r
}

// Reconcile handles POST /api/reconcile. The request is multipart/form-data
// with "resultado_oc" and "experto_historico" files plus an optional
// "tipo_filtro" form field restricting the merged result to one purchase type.
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	orderResults, err := readUpload(r, "resultado_oc", true)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	historical, err := readUpload(r, "experto_historico", true)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	opts := engine.ReconcileOptions{
		PurchaseTypeFilter: strings.TrimSpace(r.FormValue("tipo_filtro")),
	}
	if err := h.validate.Struct(opts); err != nil {
		h.errorHandler.HandleError(w, r,
			apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "invalid reconciliation options", err.Error()))
		return
	}

	result := h.service.Reconcile(ctx, orderResults, historical, opts)
	if !result.Success {
		render.Status(r, http.StatusUnprocessableEntity)
	}
	render.JSON(w, r, result)
}
