// Package contract provides interfaces and shared utilities for the retention internals.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/retention/schema"
)

// ErrNoBatch is returned when the store does not hold a batch yet.
var ErrNoBatch = errors.New("no batch has been uploaded")

// ErrNotFound is returned when an employee or intervention does not exist.
var ErrNotFound = errors.New("not found")

// StoreManager defines the interface for managing storage.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetBatchStore() BatchStore
}

// BatchStore persists scored batches. A save replaces the whole previous
// batch or leaves it untouched.
type BatchStore interface {
	// SaveBatch replaces the current batch and appends a history snapshot
	SaveBatch(ctx context.Context, batch schema.Batch) error

	// LoadBatch returns the current batch or ErrNoBatch
	LoadBatch(ctx context.Context) (schema.Batch, error)

	// UpdateInterventionStatus changes the status of one intervention
	UpdateInterventionStatus(ctx context.Context, employeeID string, seq int, status schema.InterventionStatus) error

	// ListBatches returns every history snapshot, oldest first
	ListBatches(ctx context.Context) ([]schema.BatchRecord, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
