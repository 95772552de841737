package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ocpulse/pkg/contracts/domain"
)

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to w with the given options.
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes a CSV file at path, creating parent directories.
func WriteCSVFile(path string, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	return WriteCSV(file, options)
}

var requisitionHeaders = []string{
	"Numero Requerimiento", "Tipo de Compra", "Estado Orden de Compra",
	"Clasificacion", "Financiamiento", "Titulo", "Unidad", "Comprador",
}

// RequisitionRecords flattens classified requisitions into CSV rows, one per
// requisition, with the classification label in the fourth column.
func RequisitionRecords(processed, inProcess []domain.Requisition) [][]string {
	records := make([][]string, 0, len(processed)+len(inProcess))
	appendRows := func(reqs []domain.Requisition, label domain.Classification) {
		for _, r := range reqs {
			records = append(records, []string{
				r.ID, r.PurchaseType, r.StatusRaw,
				label.String(), r.FinancingType, r.Title, r.Unit, r.Buyer,
			})
		}
	}
	appendRows(processed, domain.Processed)
	appendRows(inProcess, domain.InProcess)
	return records
}

// WriteRequisitions writes classified requisitions as BOM-prefixed CSV.
func WriteRequisitions(w io.Writer, processed, inProcess []domain.Requisition) error {
	return WriteCSV(w, WriteOptions{
		Headers:   requisitionHeaders,
		Records:   RequisitionRecords(processed, inProcess),
		BOMPrefix: true,
	})
}

var financialHeaders = []string{
	"Orden de Compra", "Estado", "Monto", "Tipo de Compra",
	"Numero Requerimiento", "Financiamiento", "Titulo", "Unidad", "Con Match",
}

// FinancialRecordRows flattens merged financial records into CSV rows.
func FinancialRecordRows(records []domain.FinancialRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.OrderCode, rec.Status,
			strconv.FormatFloat(rec.Amount, 'f', -1, 64),
			rec.PurchaseType, rec.RequisitionID, rec.FinancingType,
			rec.Title, rec.Unit, strconv.FormatBool(rec.Matched),
		})
	}
	return rows
}

// WriteFinancialRecords writes merged financial records as BOM-prefixed CSV.
func WriteFinancialRecords(w io.Writer, records []domain.FinancialRecord) error {
	return WriteCSV(w, WriteOptions{
		Headers:   financialHeaders,
		Records:   FinancialRecordRows(records),
		BOMPrefix: true,
	})
}
