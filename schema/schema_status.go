package schema

import "time"

// StoreStatus represents the status of the batch store.
type StoreStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalBatches       int              `json:"total_batches"`
	CurrentBatchID     string           `json:"current_batch_id"`
	CurrentBatchTime   time.Time        `json:"current_batch_time"`
	OldestBatchTime    time.Time        `json:"oldest_batch_time"`
	TotalEmployees     int              `json:"total_employees"`
	TotalInterventions int              `json:"total_interventions"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}
