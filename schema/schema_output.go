package schema

// EnrichedEmployee adds presentation data to a ScoredEmployee.
type EnrichedEmployee struct {
	Rank int `json:"rank"`
	ScoredEmployee
}

// EnrichEmployees adds rank to a list of scored employees.
// The input is expected to be ranked already.
func EnrichEmployees(employees []ScoredEmployee) []EnrichedEmployee {
	output := make([]EnrichedEmployee, len(employees))
	for i, e := range employees {
		output[i] = EnrichedEmployee{
			Rank:           i + 1,
			ScoredEmployee: e,
		}
	}
	return output
}

// FlattenInterventions returns every intervention of the given employees in order.
func FlattenInterventions(employees []ScoredEmployee) []InterventionRecord {
	var out []InterventionRecord
	for _, e := range employees {
		out = append(out, e.Interventions...)
	}
	return out
}

// HistoryResult is the stored batch history with its trend series.
type HistoryResult struct {
	Batches []BatchRecord `json:"batches"`
	Trend   []TrendPoint  `json:"trend"`
}

// EmployeePage is one page of the filtered employee list.
type EmployeePage struct {
	BatchID   string             `json:"batch_id"`
	Total     int                `json:"total"`
	Skip      int                `json:"skip"`
	Limit     int                `json:"limit"`
	Employees []EnrichedEmployee `json:"employees"`
}

// InterventionList is the flat intervention list of one batch.
type InterventionList struct {
	BatchID       string               `json:"batch_id"`
	Interventions []InterventionRecord `json:"interventions"`
}
