package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Read loads an uploaded table into a Dataset, dispatching on the file
// extension of name. Supported formats: .xlsx, .xls, .csv.
func Read(r io.Reader, name string) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xlsx":
		return readXLSX(r, name)
	case ".xls":
		return readXLS(r, name)
	case ".csv":
		return readCSV(r, name)
	default:
		return nil, fmt.Errorf("unsupported file type %q for %s", ext, name)
	}
}

// ReadFile loads a table from disk. Used by the batch CLI.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path))
}

func readXLSX(r io.Reader, name string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx %s has no sheets", name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], name, err)
	}
	return fromRows(name, rows)
}

// readXLS handles legacy Excel workbooks. The xls reader only works from a
// file path, so the upload is spooled to a temp file first.
func readXLS(r io.Reader, name string) (*Dataset, error) {
	tmp, err := os.CreateTemp("", "ocpulse-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to spool %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	wb, err := xls.Open(tmp.Name(), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls %s: %w", name, err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("xls %s has no sheets", name)
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		var cells []string
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return fromRows(name, rows)
}

func readCSV(r io.Reader, name string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", name, err)
	}
	// Spreadsheet exports often carry a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.Comma = detectDelimiter(data)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv %s: %w", name, err)
	}
	return fromRows(name, rows)
}

// detectDelimiter picks the separator with the most occurrences in the first
// line. Exports from the procurement platform alternate between ',' and ';'.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, sep := 0, ','
	for _, cand := range []byte{',', ';', '\t'} {
		if n := bytes.Count(line, []byte{cand}); n > best {
			best, sep = n, rune(cand)
		}
	}
	return sep
}

// fromRows converts raw sheet rows into a Dataset. The first row with any
// non-blank cell becomes the header row; everything above it is discarded.
func fromRows(name string, rows [][]string) (*Dataset, error) {
	headerIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("%s contains no data", name)
	}

	headers := rows[headerIdx]
	data := make([][]string, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		padded := make([]string, len(headers))
		copy(padded, row)
		data = append(data, padded)
	}

	slog.Debug("dataset loaded",
		slog.String("name", name),
		slog.Int("columns", len(headers)),
		slog.Int("rows", len(data)))

	return New(name, headers, data), nil
}
