package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocpulse/pkg/contracts/domain"
)

func TestWriteCSVWithBOM(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "expected UTF-8 BOM prefix")

	reader := csv.NewReader(bytes.NewReader(out[3:]))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestWriteRequisitions(t *testing.T) {
	var buf bytes.Buffer
	processed := []domain.Requisition{
		{ID: "1001", PurchaseType: "Compra Ágil", StatusRaw: "1001-123-AG24", Unit: "Abastecimiento"},
	}
	inProcess := []domain.Requisition{
		{ID: "1003", PurchaseType: "Licitación", StatusRaw: "xx"},
	}

	require.NoError(t, WriteRequisitions(&buf, processed, inProcess))

	out := buf.String()
	assert.Contains(t, out, "Numero Requerimiento")
	assert.Contains(t, out, "1001,Compra Ágil,1001-123-AG24,processed")
	assert.Contains(t, out, "1003,Licitación,xx,in_process")
}

func TestWriteFinancialRecords(t *testing.T) {
	var buf bytes.Buffer
	records := []domain.FinancialRecord{
		{OrderCode: "1001-123-AG24", Status: "Recepción Conforme", Amount: 10000, PurchaseType: "Compra Ágil", RequisitionID: "1001", Matched: true},
		{OrderCode: "9999-1-SE24", Status: "Aceptada", Amount: 2500},
	}

	require.NoError(t, WriteFinancialRecords(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "1001-123-AG24")
	assert.Contains(t, lines[1], "true")
	assert.Contains(t, lines[2], "false")
}

func TestWriteCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/reports/out.csv"

	err := WriteCSVFile(path, WriteOptions{Headers: []string{"x"}, Records: [][]string{{"1"}}})
	require.NoError(t, err)
	assert.FileExists(t, path)
}
