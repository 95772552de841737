package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ocpulse/internal/dataset"
	"ocpulse/internal/engine"
	"ocpulse/internal/infrastructure"
	"ocpulse/internal/store"
	"ocpulse/pkg/contracts/domain"
)

// ReconciliationResult is the envelope for one reconciliation batch.
type ReconciliationResult struct {
	Success        bool                     `json:"success"`
	MergedRecords  []domain.FinancialRecord `json:"merged_records"`
	UnmatchedCodes []string                 `json:"unmatched_order_codes"`
	KPIs           domain.KPISet            `json:"kpis"`
	Messages       []domain.Message         `json:"messages"`
}

// ReconciliationService runs order-result reconciliation batches and attaches
// the merged records to the most recent classification session when one exists.
type ReconciliationService struct {
	store   store.RecordStore
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(recordStore store.RecordStore, logger *slog.Logger, metrics *infrastructure.Metrics) *ReconciliationService {
	return &ReconciliationService{
		store:   recordStore,
		logger:  logger.With(slog.String("component", "reconciliation_service")),
		metrics: metrics,
	}
}

// Reconcile joins an order-result export against the historical expert export
// and computes the batch KPIs. Internal failures become error messages with
// success=false rather than propagating.
func (s *ReconciliationService) Reconcile(ctx context.Context, orderResults, historical *dataset.Dataset, opts engine.ReconcileOptions) (result *ReconciliationResult) {
	start := time.Now()
	result = &ReconciliationResult{}

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "reconciliation batch panicked", slog.Any("panic", r))
			result = &ReconciliationResult{Success: false, Messages: []domain.Message{
				{Text: "unexpected internal error during reconciliation", Category: domain.CategoryError},
			}}
		}
		s.observe(result.Success, start)
	}()

	rec, err := engine.Reconcile(orderResults, historical, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "reconciliation failed", slog.String("error", err.Error()))
		result.Messages = append(result.Messages, domain.Message{Text: err.Error(), Category: domain.CategoryError})
		return result
	}

	result.MergedRecords = rec.Records
	result.UnmatchedCodes = rec.Unmatched
	result.KPIs = rec.KPIs
	result.Messages = append(result.Messages, rec.Diagnostics.Messages...)
	result.Success = true

	if s.metrics != nil {
		s.metrics.UnmatchedOrderCodes.Add(float64(len(rec.Unmatched)))
	}

	// Persisting against a session is best-effort: reconciliation is valid on
	// its own even when no classification batch has run yet.
	session, _, _, err := s.store.LoadLatestSession(ctx)
	switch {
	case errors.Is(err, store.ErrNoSession):
		result.Messages = append(result.Messages, domain.Message{
			Text:     "no classification session found; reconciliation results were not persisted",
			Category: domain.CategoryInfo,
		})
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to load latest session", slog.String("error", err.Error()))
		result.Messages = append(result.Messages, domain.Message{
			Text:     "failed to persist reconciliation results",
			Category: domain.CategoryError,
		})
	default:
		if err := s.store.SaveFinancialRecords(ctx, session.ID, rec.Records); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist financial records",
				slog.String("session_id", session.ID), slog.String("error", err.Error()))
			result.Messages = append(result.Messages, domain.Message{
				Text:     "failed to persist reconciliation results",
				Category: domain.CategoryError,
			})
		}
	}

	s.logger.InfoContext(ctx, "reconciliation batch completed",
		slog.Int("merged", len(rec.Records)),
		slog.Int("unmatched", len(rec.Unmatched)),
		slog.Float64("gross", rec.KPIs.Gross),
		slog.Float64("effectiveness", rec.KPIs.Effectiveness),
	)
	return result
}

// FinancialRecords returns the persisted records of the latest session.
func (s *ReconciliationService) FinancialRecords(ctx context.Context) ([]domain.FinancialRecord, error) {
	session, _, _, err := s.store.LoadLatestSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.LoadFinancialRecords(ctx, session.ID)
}

func (s *ReconciliationService) observe(success bool, start time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	s.metrics.BatchesTotal.WithLabelValues("reconcile", outcome).Inc()
	s.metrics.BatchDuration.WithLabelValues("reconcile").Observe(time.Since(start).Seconds())
}
