package store

import (
	"context"

	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetBatchStore implements the StoreManager interface.
func (m *MockStoreManager) GetBatchStore() contract.BatchStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.BatchStore)
	return store
}

// MockBatchStore is a mock implementation of BatchStore for testing.
type MockBatchStore struct {
	mock.Mock
}

var _ contract.BatchStore = &MockBatchStore{} // Compile-time check

// SaveBatch implements the BatchStore interface.
func (m *MockBatchStore) SaveBatch(ctx context.Context, batch schema.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// LoadBatch implements the BatchStore interface.
func (m *MockBatchStore) LoadBatch(ctx context.Context) (schema.Batch, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.Batch), args.Error(1)
}

// UpdateInterventionStatus implements the BatchStore interface.
func (m *MockBatchStore) UpdateInterventionStatus(ctx context.Context, employeeID string, seq int, status schema.InterventionStatus) error {
	args := m.Called(ctx, employeeID, seq, status)
	return args.Error(0)
}

// ListBatches implements the BatchStore interface.
func (m *MockBatchStore) ListBatches(ctx context.Context) ([]schema.BatchRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.BatchRecord)
	return records, args.Error(1)
}

// GetStatus implements the BatchStore interface.
func (m *MockBatchStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the BatchStore interface.
func (m *MockBatchStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
