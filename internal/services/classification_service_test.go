package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocpulse/internal/dataset"
	"ocpulse/internal/store"
	"ocpulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func expertDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return dataset.New("experto.xlsx",
		[]string{"Numero Requerimiento", "Tipo de Compra", "Estado Orden de Compra"},
		[][]string{
			{"1001", "Compra Ágil", "1001-123-AG24"},
			{"1002", "Convenio Marco", "1002-55-CM24"},
			{"1003", "Licitación", "xx"},
			{"1004", "Compra Ágil", ""},
		})
}

func TestClassificationServicePersistsSession(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := NewClassificationService(memStore, testLogger(), nil)

	cancelados := dataset.New("cancelados.xlsx", []string{"Numero"}, [][]string{{"1004"}})
	result := svc.Classify(context.Background(), expertDataset(t), cancelados, nil)

	require.True(t, result.Success)
	require.NotEmpty(t, result.SessionID)
	assert.Len(t, result.Processed, 2)
	assert.Len(t, result.InProcess, 1)
	assert.Equal(t, 0, result.UnclassifiedCount)

	session, processed, inProcess, err := memStore.LoadLatestSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.SessionID, session.ID)
	assert.Equal(t, 4, session.GrossTotal)
	assert.Equal(t, 1, session.Cancelled)
	assert.Len(t, processed, 2)
	assert.Len(t, inProcess, 1)
}

func TestClassificationServiceMissingColumnFails(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := NewClassificationService(memStore, testLogger(), nil)

	bad := dataset.New("experto.xlsx", []string{"Columna Desconocida"}, [][]string{{"x"}})
	result := svc.Classify(context.Background(), bad, nil, nil)

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Messages)
	assert.Equal(t, domain.CategoryError, result.Messages[0].Category)

	_, _, _, err := memStore.LoadLatestSession(context.Background())
	assert.ErrorIs(t, err, store.ErrNoSession)
}

func TestClassificationServiceLatestSession(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := NewClassificationService(memStore, testLogger(), nil)

	_, err := svc.LatestSession(context.Background())
	assert.ErrorIs(t, err, store.ErrNoSession)

	result := svc.Classify(context.Background(), expertDataset(t), nil, nil)
	require.True(t, result.Success)

	latest, err := svc.LatestSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.SessionID, latest.Session.ID)
	assert.Len(t, latest.Processed, len(result.Processed))
}
