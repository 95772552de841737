package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ocpulse/internal/errors"
)

// ClassifyHandler handles classification batch uploads.
type ClassifyHandler struct {
	service      ClassificationServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(service ClassificationServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ClassifyHandler {
	return &ClassifyHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "classify_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the classification routes.
func (h *ClassifyHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Classify)
	return r
}

// Classify handles POST /api/classify. The request is multipart/form-data
// with "experto" and "cancelados" files plus an optional "precompra"
// reference file.
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	experto, err := readUpload(r, "experto", true)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	cancelados, err := readUpload(r, "cancelados", true)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	precompra, err := readUpload(r, "precompra", false)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result := h.service.Classify(ctx, experto, cancelados, precompra)
	if !result.Success {
		render.Status(r, http.StatusUnprocessableEntity)
	}
	render.JSON(w, r, result)
}
