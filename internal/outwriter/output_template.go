package outwriter

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/ingest"
)

// PrintTemplate writes the upload template. An --output-file ending in
// .xlsx gets a workbook, everything else gets CSV.
func PrintTemplate(cfg *contract.Config) error {
	if strings.EqualFold(filepath.Ext(cfg.OutputFile), ".xlsx") {
		return writeWithFile(cfg.OutputFile, ingest.WriteTemplateXLSX, "Wrote XLSX template")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return ingest.WriteTemplate(w)
	}, "Wrote CSV template")
}
