package services

import (
	"context"
	"log/slog"
	"time"

	"ocpulse/internal/dataset"
	"ocpulse/internal/engine"
	"ocpulse/internal/infrastructure"
	"ocpulse/internal/store"
	"ocpulse/pkg/contracts/domain"
)

// ClassificationResult is the envelope returned to the caller for one
// classification batch. The engine never lets a failure escape as an error;
// everything arrives here with an explicit success flag and a message list.
type ClassificationResult struct {
	Success           bool                 `json:"success"`
	SessionID         string               `json:"session_id,omitempty"`
	Processed         []domain.Requisition `json:"processed"`
	InProcess         []domain.Requisition `json:"in_process"`
	UnclassifiedCount int                  `json:"unclassified_count"`
	Messages          []domain.Message     `json:"messages"`
}

// SessionResult is the envelope for latest-session retrieval.
type SessionResult struct {
	Session   *domain.Session      `json:"session"`
	Processed []domain.Requisition `json:"processed"`
	InProcess []domain.Requisition `json:"in_process"`
}

// ClassificationService runs classification batches and persists their
// outcome through the record store.
type ClassificationService struct {
	store   store.RecordStore
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewClassificationService creates a new classification service.
func NewClassificationService(recordStore store.RecordStore, logger *slog.Logger, metrics *infrastructure.Metrics) *ClassificationService {
	return &ClassificationService{
		store:   recordStore,
		logger:  logger.With(slog.String("component", "classification_service")),
		metrics: metrics,
	}
}

// Classify runs one full classification pass over the uploaded datasets and
// persists the outcome. precompra may be nil. Any internal failure, however
// unexpected, is converted into an error-category message with success=false.
func (s *ClassificationService) Classify(ctx context.Context, experto, cancelados, precompra *dataset.Dataset) (result *ClassificationResult) {
	start := time.Now()
	result = &ClassificationResult{}

	// Batch boundary: nothing below may escape as a panic.
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "classification batch panicked", slog.Any("panic", r))
			result = &ClassificationResult{Success: false, Messages: []domain.Message{
				{Text: "unexpected internal error during classification", Category: domain.CategoryError},
			}}
		}
		s.observe("classify", result.Success, start)
	}()

	out, err := engine.ClassifyDataset(experto, cancelados, precompra)
	if err != nil {
		s.logger.WarnContext(ctx, "classification failed", slog.String("error", err.Error()))
		result.Messages = append(result.Messages, domain.Message{Text: err.Error(), Category: domain.CategoryError})
		return result
	}

	result.Processed = out.Processed
	result.InProcess = out.InProcess
	result.UnclassifiedCount = len(out.Unclassified)
	result.Messages = append(result.Messages, out.Diagnostics.Messages...)

	session := &domain.Session{
		GrossTotal:   out.GrossTotal,
		Processed:    len(out.Processed),
		InProcess:    len(out.InProcess),
		Cancelled:    out.CancelledRemoved,
		Unclassified: len(out.Unclassified),
		Efficiency:   out.Efficiency,
	}
	sessionID, err := s.store.SaveSession(ctx, session)
	if err == nil {
		err = s.store.SaveRequisitions(ctx, sessionID, out.Processed, out.InProcess)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist classification batch", slog.String("error", err.Error()))
		result.Messages = append(result.Messages, domain.Message{
			Text:     "failed to persist batch results",
			Category: domain.CategoryError,
		})
		return result
	}

	result.SessionID = sessionID
	result.Success = true

	if s.metrics != nil {
		s.metrics.RequisitionsClassified.WithLabelValues(domain.Processed.String()).Add(float64(len(out.Processed)))
		s.metrics.RequisitionsClassified.WithLabelValues(domain.InProcess.String()).Add(float64(len(out.InProcess)))
		s.metrics.RequisitionsClassified.WithLabelValues(domain.Unclassified.String()).Add(float64(len(out.Unclassified)))
	}
	s.logger.InfoContext(ctx, "classification batch completed",
		slog.String("session_id", sessionID),
		slog.Int("processed", len(out.Processed)),
		slog.Int("in_process", len(out.InProcess)),
		slog.Int("unclassified", len(out.Unclassified)),
		slog.Int("cancelled", out.CancelledRemoved),
		slog.Float64("efficiency", out.Efficiency),
	)
	return result
}

// LatestSession returns the most recent persisted session and requisitions.
func (s *ClassificationService) LatestSession(ctx context.Context) (*SessionResult, error) {
	session, processed, inProcess, err := s.store.LoadLatestSession(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionResult{Session: session, Processed: processed, InProcess: inProcess}, nil
}

func (s *ClassificationService) observe(kind string, success bool, start time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	s.metrics.BatchesTotal.WithLabelValues(kind, outcome).Inc()
	s.metrics.BatchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
