package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocpulse/internal/services"
)

type stubHealthService struct {
	status *services.HealthStatus
}

func (s *stubHealthService) Check(context.Context) *services.HealthStatus {
	return s.status
}

func TestHealthHandlerHealthy(t *testing.T) {
	handler := NewHealthHandler(&stubHealthService{status: &services.HealthStatus{
		Status: "healthy", Store: "ok", Timestamp: time.Now().UTC(), Version: "test",
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
}

func TestHealthHandlerDegraded(t *testing.T) {
	handler := NewHealthHandler(&stubHealthService{status: &services.HealthStatus{
		Status: "degraded", Store: "connection refused",
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.Health(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
