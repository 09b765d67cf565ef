// Package store persists scored batches and their history snapshots.
package store

import (
	"sync"

	"github.com/huangsam/retention/internal/contract"
)

// BatchStoreManager holds the batch store used by the running process.
type BatchStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	batches      contract.BatchStore
}

var _ contract.StoreManager = &BatchStoreManager{} // Compile-time check

// NewManager wraps an existing store. Tests and the REST server use this
// instead of the global Manager.
func NewManager(batches contract.BatchStore) *BatchStoreManager {
	return &BatchStoreManager{batches: batches}
}

// GetBatchStore returns the batch store.
func (mgr *BatchStoreManager) GetBatchStore() contract.BatchStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.batches
}
