package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/huangsam/retention/core/agg"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
)

// MemoryStore keeps the batch in process memory. It backs NoneBackend.
type MemoryStore struct {
	mu      sync.RWMutex
	current *schema.Batch
	history []schema.BatchRecord
}

var _ contract.BatchStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveBatch implements the BatchStore interface.
func (m *MemoryStore) SaveBatch(ctx context.Context, batch schema.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := cloneBatch(batch)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &cp
	m.history = append(m.history, agg.SnapshotOf(batch))
	return nil
}

// LoadBatch implements the BatchStore interface.
func (m *MemoryStore) LoadBatch(ctx context.Context) (schema.Batch, error) {
	if err := ctx.Err(); err != nil {
		return schema.Batch{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return schema.Batch{}, contract.ErrNoBatch
	}
	return cloneBatch(*m.current), nil
}

// UpdateInterventionStatus implements the BatchStore interface.
func (m *MemoryStore) UpdateInterventionStatus(ctx context.Context, employeeID string, seq int, status schema.InterventionStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := schema.ValidInterventionStatuses[status]; !ok {
		return fmt.Errorf("invalid intervention status %q", status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		for i := range m.current.Employees {
			ivs := m.current.Employees[i].Interventions
			for j := range ivs {
				if ivs[j].EmployeeID == employeeID && ivs[j].Seq == seq {
					ivs[j].Status = status
					ivs[j].UpdatedAt = nowUTC()
					return nil
				}
			}
		}
	}
	return fmt.Errorf("intervention %s/%d: %w", employeeID, seq, contract.ErrNotFound)
}

// ListBatches implements the BatchStore interface.
func (m *MemoryStore) ListBatches(ctx context.Context) ([]schema.BatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schema.BatchRecord, len(m.history))
	copy(out, m.history)
	return out, nil
}

// GetStatus implements the BatchStore interface.
func (m *MemoryStore) GetStatus() (schema.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := schema.StoreStatus{
		Backend:      string(schema.NoneBackend),
		Connected:    true,
		TotalBatches: len(m.history),
		TableSizes:   make(map[string]int64),
	}
	if m.current != nil {
		status.CurrentBatchID = m.current.ID
		status.CurrentBatchTime = m.current.CreatedAt
		status.TotalEmployees = len(m.current.Employees)
		status.TotalInterventions = len(schema.FlattenInterventions(m.current.Employees))
	}
	if len(m.history) > 0 {
		status.OldestBatchTime = m.history[0].CreatedAt
	}
	status.TableSizes[batchesTable] = int64(status.TotalBatches)
	status.TableSizes[employeesTable] = int64(status.TotalEmployees)
	status.TableSizes[interventionsTable] = int64(status.TotalInterventions)
	return status, nil
}

// Close implements the BatchStore interface.
func (m *MemoryStore) Close() error {
	return nil
}

// cloneBatch copies every mutable part so callers never share state with the store.
func cloneBatch(b schema.Batch) schema.Batch {
	out := b
	out.Employees = make([]schema.ScoredEmployee, len(b.Employees))
	for i, se := range b.Employees {
		se.Assessment.RiskFactors = slices.Clone(se.Assessment.RiskFactors)
		se.Assessment.Breakdown = maps.Clone(se.Assessment.Breakdown)
		se.Interventions = slices.Clone(se.Interventions)
		out.Employees[i] = se
	}
	return out
}
