package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ocpulse/internal/errors"
	"ocpulse/internal/exporter"
	"ocpulse/internal/store"
)

// SessionHandler serves persisted session results and CSV exports.
type SessionHandler struct {
	classification ClassificationServiceInterface
	reconciliation ReconciliationServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(classification ClassificationServiceInterface, reconciliation ReconciliationServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SessionHandler {
	return &SessionHandler{
		classification: classification,
		reconciliation: reconciliation,
		logger:         logger.With(slog.String("component", "session_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the session routes.
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/latest", h.GetLatest)
	r.Get("/latest/requisitions.csv", h.ExportRequisitions)
	r.Get("/latest/financial.csv", h.ExportFinancialRecords)
	return r
}

// GetLatest handles GET /api/sessions/latest.
func (h *SessionHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result, err := h.classification.LatestSession(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapStoreError(err))
		return
	}
	render.JSON(w, r, result)
}

// ExportRequisitions streams the latest session's classified requisitions
// as a BOM-prefixed CSV download.
func (h *SessionHandler) ExportRequisitions(w http.ResponseWriter, r *http.Request) {
	result, err := h.classification.LatestSession(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapStoreError(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="requisitions.csv"`)
	if err := exporter.WriteRequisitions(w, result.Processed, result.InProcess); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream requisition export", slog.String("error", err.Error()))
	}
}

// ExportFinancialRecords streams the latest session's merged financial
// records as a BOM-prefixed CSV download.
func (h *SessionHandler) ExportFinancialRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.reconciliation.FinancialRecords(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapStoreError(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="financial.csv"`)
	if err := exporter.WriteFinancialRecords(w, records); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream financial export", slog.String("error", err.Error()))
	}
}

func (h *SessionHandler) mapStoreError(err error) error {
	if errors.Is(err, store.ErrNoSession) {
		return apierrors.ErrSessionNotFound
	}
	return apierrors.ErrStoreUnavailable
}
