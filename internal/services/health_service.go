package services

import (
	"context"
	"errors"
	"time"

	"ocpulse/internal/store"
)

// HealthStatus reports service liveness and store reachability.
type HealthStatus struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// HealthService answers health probes.
type HealthService struct {
	store   store.RecordStore
	version string
}

// NewHealthService creates a new health service.
func NewHealthService(recordStore store.RecordStore, version string) *HealthService {
	return &HealthService{store: recordStore, version: version}
}

// Check probes the record store. ErrNoSession is a healthy answer: it proves
// the store responded even though nothing has been persisted yet.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Store:     "ok",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
	}
	if _, _, _, err := s.store.LoadLatestSession(ctx); err != nil && !errors.Is(err, store.ErrNoSession) {
		status.Status = "degraded"
		status.Store = err.Error()
	}
	return status
}
