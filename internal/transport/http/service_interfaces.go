package http

import (
	"context"

	"ocpulse/internal/dataset"
	"ocpulse/internal/engine"
	"ocpulse/internal/services"
	"ocpulse/pkg/contracts/domain"
)

// ClassificationServiceInterface defines the contract the classify handler
// depends on. Handlers depend on this, not the concrete service, so tests can
// substitute stubs.
type ClassificationServiceInterface interface {
	Classify(ctx context.Context, experto, cancelados, precompra *dataset.Dataset) *services.ClassificationResult
	LatestSession(ctx context.Context) (*services.SessionResult, error)
}

// ReconciliationServiceInterface defines the contract the reconcile handler
// depends on.
type ReconciliationServiceInterface interface {
	Reconcile(ctx context.Context, orderResults, historical *dataset.Dataset, opts engine.ReconcileOptions) *services.ReconciliationResult
	FinancialRecords(ctx context.Context) ([]domain.FinancialRecord, error)
}

// HealthServiceInterface defines the contract the health handler depends on.
type HealthServiceInterface interface {
	Check(ctx context.Context) *services.HealthStatus
}
