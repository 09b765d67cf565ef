package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/parquet"
	"github.com/huangsam/retention/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintInterventionResults outputs the flat intervention list, dispatching based on the output format configured.
func PrintInterventionResults(list schema.InterventionList, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, list)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForInterventions(w, list.Interventions)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(parquet.ConvertInterventions(list.BatchID, list.Interventions), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeInterventionTable(w, list.Interventions, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d interventions\n", len(list.Interventions))
			return err
		}, "Wrote table")
	}
}

// writeInterventionTable renders interventions with the priority colored.
func writeInterventionTable(w io.Writer, records []schema.InterventionRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Employee", "Seq", "Action", "Priority", "Timeline", "Owner", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			r.EmployeeID,
			strconv.Itoa(r.Seq),
			r.Action,
			contract.GetPriorityLabel(r.Priority, cfg.UseColors),
			r.Timeline,
			r.Owner,
			string(r.Status),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForInterventions writes one row per intervention.
func writeCSVResultsForInterventions(w io.Writer, records []schema.InterventionRecord) error {
	header := []string{
		"employee_id",
		"seq",
		"action",
		"description",
		"priority",
		"timeline",
		"owner",
		"type",
		"status",
		"updated_at",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			row := []string{
				r.EmployeeID,
				strconv.Itoa(r.Seq),
				r.Action,
				r.Description,
				string(r.Priority),
				r.Timeline,
				r.Owner,
				string(r.Type),
				string(r.Status),
				r.UpdatedAt.UTC().Format(contract.DateTimeFormat),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
