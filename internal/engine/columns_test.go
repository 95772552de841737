package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectColumns(t *testing.T) {
	headers := []string{
		"Número Requerimiento",
		"Título de la Solicitud",
		"Tipo de Compra",
		"Unidad Solicitante",
		"Comprador Asignado",
		"Orden de Compra",
		"Fuente de Financiamiento",
	}

	fm := DetectColumns(headers)

	assert.Equal(t, "Número Requerimiento", fm.RequisitionNumber)
	assert.Equal(t, "Tipo de Compra", fm.PurchaseType)
	assert.Equal(t, "Orden de Compra", fm.OrderStatus)
	assert.Equal(t, "Título de la Solicitud", fm.Title)
	assert.Equal(t, "Unidad Solicitante", fm.Unit)
	assert.Equal(t, "Comprador Asignado", fm.Buyer)
	assert.Equal(t, "Fuente de Financiamiento", fm.FinancingType)
	assert.True(t, fm.HasFinancing())
	require.NoError(t, fm.RequireClassificationFields())
}

func TestDetectColumnsTwoStagePriority(t *testing.T) {
	// "Modalidad" alone would satisfy the broad purchase-type keywords, but
	// the strict "tipo"+"compra" stage outranks it even when the strict
	// header appears later in column order.
	headers := []string{"Modalidad", "ID Solicitud", "Tipo Compra", "Estado OC"}
	fm := DetectColumns(headers)
	assert.Equal(t, "Tipo Compra", fm.PurchaseType)

	// Without a strict match the broad stage falls back to first column order.
	headers = []string{"Modalidad", "ID Solicitud", "Estado OC"}
	fm = DetectColumns(headers)
	assert.Equal(t, "Modalidad", fm.PurchaseType)
}

func TestDetectColumnsOrderStatusFallback(t *testing.T) {
	// No "orden"+"compra" header: the broad list accepts "Estado".
	headers := []string{"Numero Req", "Modalidad", "Estado"}
	fm := DetectColumns(headers)
	assert.Equal(t, "Estado", fm.OrderStatus)
	require.NoError(t, fm.RequireClassificationFields())
}

func TestDetectColumnsTiesResolveToFirstHeader(t *testing.T) {
	headers := []string{"Numero Req", "Numero Solicitud", "Tipo de Compra", "Orden de Compra"}
	fm := DetectColumns(headers)
	assert.Equal(t, "Numero Req", fm.RequisitionNumber)
}

func TestRequireClassificationFieldsNamesMissingField(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		wantErr string
	}{
		{
			name:    "missing requisition number",
			headers: []string{"Tipo de Compra", "Orden de Compra"},
			wantErr: "requisition number",
		},
		{
			name:    "missing purchase type",
			headers: []string{"Numero Req", "Estado OC"},
			wantErr: "purchase type",
		},
		{
			name:    "missing order status",
			headers: []string{"Numero Req", "Modalidad"},
			wantErr: "order status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := DetectColumns(tt.headers)
			err := fm.RequireClassificationFields()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDetectColumn(t *testing.T) {
	headers := []string{"Proveedor", "N° Orden", "Total OC"}
	h, ok := DetectColumn(headers, "orden", "oc", "n°", "numero", "número", "compra")
	assert.True(t, ok)
	assert.Equal(t, "N° Orden", h)

	_, ok = DetectColumn([]string{"Proveedor"}, "orden", "oc")
	assert.False(t, ok)
}
