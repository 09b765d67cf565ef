package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/parquet"
	"github.com/huangsam/retention/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintUploadResult outputs the snapshot of a freshly saved batch.
func PrintUploadResult(record schema.BatchRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, record)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForBatches(w, []schema.BatchRecord{record}, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(parquet.ConvertBatchRecords([]schema.BatchRecord{record}), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "✅ Saved batch %s with %d employees (average risk %s)\n",
				record.BatchID, record.Total, fmtFloat(record.AvgRiskScore)); err != nil {
				return err
			}
			bands := schema.BandCounts{Critical: record.Critical, High: record.High, Medium: record.Medium, Low: record.Low}
			if err := writeBandTable(w, bands, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Completed in %v. Store backend: %s\n", duration, cfg.StoreBackend)
			return err
		}, "Wrote text")
	}
}

// PrintHistoryResults outputs the stored batch snapshots and their trend.
func PrintHistoryResults(history schema.HistoryResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, history)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForBatches(w, history.Batches, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(parquet.ConvertBatchRecords(history.Batches), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, history, fmtFloat)
		}, "Wrote table")
	}
}

func writeHistoryTable(w io.Writer, history schema.HistoryResult, fmtFloat func(float64) string) error {
	if len(history.Batches) == 0 {
		_, err := fmt.Fprintln(w, "No batches have been uploaded yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Batch", "Uploaded", "Source", "Total", "Avg", "Critical", "High", "Medium", "Low"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for i, b := range history.Batches {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(b.BatchID, 13),
			b.CreatedAt.UTC().Format(time.DateTime),
			contract.TruncateText(b.Source, 30),
			strconv.Itoa(b.Total),
			fmtFloat(b.AvgRiskScore),
			strconv.Itoa(b.Critical),
			strconv.Itoa(b.High),
			strconv.Itoa(b.Medium),
			strconv.Itoa(b.Low),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d batches stored\n", len(history.Batches))
	return err
}

// writeCSVResultsForBatches writes one row per batch snapshot.
func writeCSVResultsForBatches(w io.Writer, records []schema.BatchRecord, fmtFloat func(float64) string) error {
	header := []string{"batch_id", "created_at", "source", "total", "critical", "high", "medium", "low", "avg_risk_score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			row := []string{
				r.BatchID,
				r.CreatedAt.UTC().Format(contract.DateTimeFormat),
				r.Source,
				strconv.Itoa(r.Total),
				strconv.Itoa(r.Critical),
				strconv.Itoa(r.High),
				strconv.Itoa(r.Medium),
				strconv.Itoa(r.Low),
				fmtFloat(r.AvgRiskScore),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
