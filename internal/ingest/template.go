package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/retention/schema"
	"github.com/xuri/excelize/v2"
)

// templateRows are the example rows shipped with the upload template.
var templateRows = [][]string{
	{"EMP001", "John Doe", "john.doe@company.com", "Engineering", "Software Engineer", "2022-01-15", "MGR001", "Remote", "95000", "0.85", "0.75", "2023-06-01"},
	{"EMP002", "Jane Smith", "jane.smith@company.com", "Sales", "Account Executive", "2021-03-20", "MGR002", "HQ", "68000", "0.45", "0.35", ""},
}

// templateSheet is the sheet name of the xlsx template.
const templateSheet = "Employees"

// WriteTemplate writes the canonical CSV upload template.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.CanonicalHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(templateRows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplateXLSX writes the same template as an xlsx workbook.
func WriteTemplateXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return err
	}
	rows := append([][]string{schema.CanonicalHeader}, templateRows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(templateSheet, cell, &values); err != nil {
			return fmt.Errorf("write template row %d: %w", i+1, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}
