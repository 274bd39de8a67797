package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetlens/domain/dataset"
	"sheetlens/internal/analysis"
	"sheetlens/internal/logx"
	"sheetlens/ports"
)

// dateLayouts are the text formats coerced to time cells at ingestion
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// Reader reads Excel and CSV files into Datasets
type Reader struct {
	log *logx.Logger
}

// NewReader creates a new data reader
func NewReader(log *logx.Logger) ports.DatasetReader {
	if log == nil {
		log = logx.DefaultLogger
	}
	return &Reader{log: log}
}

// Read loads the file at path, dispatching on its extension
func (r *Reader) Read(path string) (*dataset.Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file not found: %s", path)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = r.readCSV(path)
	case ".xlsx", ".xlsm":
		rows, err = r.readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r.processRows(name, rows)
}

// readExcel reads Sheet1 of an Excel workbook
func (r *Reader) readExcel(path string) ([][]string, error) {
	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.log.Debug("read %d rows from sheet %q in %.2fms", len(rows), sheet, float64(time.Since(start).Nanoseconds())/1e6)
	return rows, nil
}

// readCSV reads the whole CSV file
func (r *Reader) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows converts raw string rows into a Dataset. The first row is
// the header; unnamed columns get positional names.
func (r *Reader) processRows(name string, raw [][]string) (*dataset.Dataset, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("file must have at least a header row and one data row")
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	rows := make([]dataset.Row, 0, len(raw)-1)
	for _, record := range raw[1:] {
		row := make(dataset.Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = CoerceCell(record[i])
			} else {
				row[h] = dataset.Null()
			}
		}
		rows = append(rows, row)
	}

	return analysis.BuildDataset(name, headers, rows), nil
}

// CoerceCell converts one raw string cell to a typed cell: empty → null,
// then number, boolean, date, and finally text.
func CoerceCell(raw string) dataset.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return dataset.Null()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return dataset.Number(v)
	}
	if trimmed == "true" || trimmed == "false" {
		return dataset.Bool(trimmed == "true")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return dataset.TimeVal(t)
		}
	}
	return dataset.Text(raw)
}
