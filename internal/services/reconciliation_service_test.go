package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocpulse/internal/dataset"
	"ocpulse/internal/engine"
	"ocpulse/internal/store"
	"ocpulse/pkg/contracts/domain"
)

func orderResultsDataset() *dataset.Dataset {
	return dataset.New("resultado_oc.xlsx",
		[]string{"Orden de Compra", "Estado", "Total OC"},
		[][]string{
			{"1001-123-AG24", "Recepción Conforme", "$10.000"},
			{"2002-55-CM24", "Enviada a Proveedor", "5.000"},
			{"9999-1-SE24", "Aceptada", "2.500"},
		})
}

func historicalDataset() *dataset.Dataset {
	return dataset.New("experto_historico.xlsx",
		[]string{"Numero Requerimiento", "Tipo de Compra", "Estado Orden de Compra"},
		[][]string{
			{"1001", "Compra Ágil", "1001-123-AG24"},
			{"2002", "Convenio Marco", "2002-55-CM24"},
		})
}

func TestReconciliationServicePersistsToLatestSession(t *testing.T) {
	memStore := store.NewMemoryStore()

	classify := NewClassificationService(memStore, testLogger(), nil)
	clsResult := classify.Classify(context.Background(), expertDataset(t), nil, nil)
	require.True(t, clsResult.Success)

	svc := NewReconciliationService(memStore, testLogger(), nil)
	result := svc.Reconcile(context.Background(), orderResultsDataset(), historicalDataset(), engine.ReconcileOptions{})

	require.True(t, result.Success)
	assert.Len(t, result.MergedRecords, 3)
	assert.Equal(t, []string{"9999-1-SE24"}, result.UnmatchedCodes)
	assert.InDelta(t, 17500.0, result.KPIs.Gross, 1e-9)
	assert.InDelta(t, 17500.0, result.KPIs.Valid, 1e-9)
	assert.InDelta(t, 12500.0, result.KPIs.Conforming, 1e-9)

	records, err := svc.FinancialRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReconciliationServiceWithoutSession(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := NewReconciliationService(memStore, testLogger(), nil)

	result := svc.Reconcile(context.Background(), orderResultsDataset(), historicalDataset(), engine.ReconcileOptions{})

	require.True(t, result.Success)
	var sawInfo bool
	for _, msg := range result.Messages {
		if msg.Category == domain.CategoryInfo && msg.Text == "no classification session found; reconciliation results were not persisted" {
			sawInfo = true
		}
	}
	assert.True(t, sawInfo, "expected an info message about the missing session")

	_, err := svc.FinancialRecords(context.Background())
	assert.ErrorIs(t, err, store.ErrNoSession)
}

func TestReconciliationServiceMissingJoinKey(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := NewReconciliationService(memStore, testLogger(), nil)

	bad := dataset.New("resultado_oc.xlsx", []string{"Columna"}, [][]string{{"x"}})
	result := svc.Reconcile(context.Background(), bad, historicalDataset(), engine.ReconcileOptions{})

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Messages)
	assert.Equal(t, domain.CategoryError, result.Messages[0].Category)
}
