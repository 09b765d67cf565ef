// Package ingest reads roster spreadsheets (CSV and XLSX) into raw rows.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/retention/schema"
	"github.com/xuri/excelize/v2"
)

// ErrUnparseable is returned when a file cannot be turned into rows at all.
var ErrUnparseable = errors.New("unparseable file")

// Format identifies a supported roster file format.
type Format string

// Supported formats.
const (
	CSVFormat  Format = "csv"
	XLSXFormat Format = "xlsx"
)

// zipMagic is the local file header signature that starts every xlsx archive.
var zipMagic = []byte("PK\x03\x04")

// utf8BOM is stripped from the start of CSV input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads the roster at path.
func ReadFile(path string) ([]schema.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, filepath.Base(path))
}

// Read parses a roster from r. The name is only used to pick the format;
// content that starts with a zip signature is always treated as xlsx.
func Read(r io.Reader, name string) ([]schema.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnparseable, name)
	}

	var records [][]string
	switch DetectFormat(name, data) {
	case XLSXFormat:
		records, err = readXLSX(data)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnparseable, name, err)
	}

	rows, err := toRows(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnparseable, name, err)
	}
	return rows, nil
}

// DetectFormat picks the format from content first, then from the file extension.
func DetectFormat(name string, data []byte) Format {
	if bytes.HasPrefix(data, zipMagic) {
		return XLSXFormat
	}
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return XLSXFormat
	}
	return CSVFormat
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, errors.New("content is not valid UTF-8")
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// toRows maps records onto the header. Blank lines are skipped, short rows
// are padded and extra cells past the header are dropped.
func toRows(records [][]string) ([]schema.RawRow, error) {
	headerIdx := -1
	for i, rec := range records {
		if !isBlankRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, errors.New("no header row")
	}

	header := make([]string, len(records[headerIdx]))
	for i, h := range records[headerIdx] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []schema.RawRow
	for _, rec := range records[headerIdx+1:] {
		if isBlankRecord(rec) {
			continue
		}
		row := make(schema.RawRow, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(rec) {
				row[key] = rec[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, errors.New("no data rows")
	}
	return rows, nil
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
