package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocpulse/internal/dataset"
	"ocpulse/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	precompra := BuildIDSet([]string{"500", "600.0"})

	tests := []struct {
		name         string
		purchaseType string
		status       string
		id           string
		want         domain.Classification
	}{
		{"compra agil AG processed", domain.TypeCompraAgil, "AG-12", "1", domain.Processed},
		{"compra agil blank in process", domain.TypeCompraAgil, "", "1", domain.InProcess},
		{"compra agil nan in process", domain.TypeCompraAgil, "nan", "1", domain.InProcess},
		{"compra agil COT outside precompra", domain.TypeCompraAgil, "COT-3", "1", domain.InProcess},
		{"compra agil COT inside precompra", domain.TypeCompraAgil, "COT-3", "500", domain.Unclassified},
		{"compra agil COT inside precompra float id", domain.TypeCompraAgil, "COT-9", "600", domain.Unclassified},
		{"compra agil other status", domain.TypeCompraAgil, "XYZ", "1", domain.Unclassified},

		{"convenio marco CM", domain.TypeConvenioMarco, "CM-1", "1", domain.Processed},
		{"convenio marco AG", domain.TypeConvenioMarco, "AG-4", "1", domain.Processed},
		{"convenio marco pending prefix", domain.TypeConvenioMarco, "2332-xx-007", "1", domain.InProcess},
		{"convenio marco blank", domain.TypeConvenioMarco, "", "1", domain.InProcess},
		{"convenio marco other", domain.TypeConvenioMarco, "ZZ", "1", domain.Unclassified},

		{"trato directo TD", domain.TypeTratoDirecto, "TD-9", "1", domain.Processed},
		{"trato directo LEY", domain.TypeTratoDirecto, "LEY 19.886", "1", domain.Processed},
		{"trato directo pending prefix", domain.TypeTratoDirecto, "2332-XX-010", "1", domain.InProcess},

		{"licitacion real code processed", domain.TypeLicitacion, "VALID-001", "1", domain.Processed},
		{"licitacion xx placeholder", domain.TypeLicitacion, "xx", "1", domain.InProcess},
		{"licitacion XX uppercase", domain.TypeLicitacion, "XX", "1", domain.InProcess},
		{"licitacion pending prefix", domain.TypeLicitacion, "2332-xx-001", "1", domain.InProcess},
		{"licitacion blank", domain.TypeLicitacion, "", "1", domain.InProcess},
		{"suministros real code processed", domain.TypeConvenioSuministros, "OC-2024", "1", domain.Processed},

		{"unknown type never classified", "Compra Especial", "AG-1", "1", domain.Unclassified},
		{"unknown type blank", "Compra Especial", "", "1", domain.Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.purchaseType, tt.status, tt.id, precompra)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyAliases(t *testing.T) {
	// Legacy procedure names classify under their canonical type's rules.
	assert.Equal(t, domain.Processed, Classify("Convenio de Insumos", "OC-77", "1", nil))
	assert.Equal(t, domain.Processed, Classify("Trato Directo con Cotizaciones", "TD-1", "1", nil))
	assert.Equal(t, domain.TypeConvenioSuministros, NormalizePurchaseType("Convenio de Insumos"))
	assert.Equal(t, domain.TypeTratoDirecto, NormalizePurchaseType(" Trato Directo con Cotizaciones "))
}

func TestClassifyExactlyOneResult(t *testing.T) {
	// For every type/status pair the decision tables yield exactly one of
	// the three labels; processed and in-process are never both true.
	types := []string{
		domain.TypeCompraAgil, domain.TypeConvenioMarco, domain.TypeTratoDirecto,
		domain.TypeLicitacion, domain.TypeConvenioSuministros, "Otro Tipo",
	}
	statuses := []string{"", "nan", "AG-1", "CM-2", "TD-3", "LEY", "COT-4", "xx", "XX", "2332-xx-01", "VALID-9"}
	for _, pt := range types {
		for _, st := range statuses {
			got := Classify(pt, st, "1", nil)
			assert.Contains(t,
				[]domain.Classification{domain.Processed, domain.InProcess, domain.Unclassified},
				got, "type=%q status=%q", pt, st)
			if isProcessed(NormalizePurchaseType(pt), st) {
				assert.Equal(t, domain.Processed, got, "type=%q status=%q", pt, st)
			}
		}
	}
}

func TestMaterializeRequisition(t *testing.T) {
	ds := dataset.New("experto", []string{
		"Numero Req", "Tipo de Compra", "Orden de Compra", "Titulo", "Unidad", "Comprador", "Financiamiento",
	}, [][]string{
		{"1023.0", "Convenio de Insumos", " OC-1 ", "Insumos médicos", "Abastecimiento", "jperez", "Fondo Fijo"},
	})
	fm := DetectColumns(ds.Headers)
	require.NoError(t, fm.RequireClassificationFields())

	req := MaterializeRequisition(ds, fm, 0)
	assert.Equal(t, "1023", req.ID)
	assert.Equal(t, domain.TypeConvenioSuministros, req.PurchaseType)
	assert.Equal(t, "OC-1", req.StatusRaw)
	assert.Equal(t, "Insumos médicos", req.Title)
	assert.Equal(t, "Abastecimiento", req.Unit)
	assert.Equal(t, "jperez", req.Buyer)
	assert.Equal(t, "Fondo Fijo", req.FinancingType)
}

func TestClassifyDataset(t *testing.T) {
	experto := dataset.New("experto", []string{
		"Numero Req", "Tipo de Compra", "Orden de Compra",
	}, [][]string{
		{"100", "Compra Ágil", "AG-1"},
		{"101", "Compra Ágil", ""},
		{"102", "Compra Ágil", "desconocido"},
		{"200.0", "Licitación", "VALID-1"},
		{"300", "Trato Directo", "TD-5"},
	})
	cancelados := dataset.New("cancelados", []string{"id"}, [][]string{{"300"}})

	out, err := ClassifyDataset(experto, cancelados, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, out.GrossTotal)
	assert.Equal(t, 1, out.CancelledRemoved)
	require.Len(t, out.Processed, 2)
	assert.Equal(t, "100", out.Processed[0].ID)
	assert.Equal(t, "200", out.Processed[1].ID)
	require.Len(t, out.InProcess, 1)
	assert.Equal(t, "101", out.InProcess[0].ID)
	require.Len(t, out.Unclassified, 1)
	assert.Equal(t, "102", out.Unclassified[0].ID)
	assert.InDelta(t, 50.0, out.Efficiency, 0.001)

	var warned bool
	for _, msg := range out.Diagnostics.Messages {
		if msg.Category == domain.CategoryWarning {
			warned = true
		}
	}
	assert.True(t, warned, "nonzero unclassified count must surface a warning")
}

func TestClassifyDatasetMissingColumnFails(t *testing.T) {
	experto := dataset.New("experto", []string{"Columna A", "Columna B"}, nil)
	cancelados := dataset.New("cancelados", []string{"id"}, nil)

	_, err := ClassifyDataset(experto, cancelados, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requisition number")
}
