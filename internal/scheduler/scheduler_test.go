package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roster = `employee_id,name,department,engagement_score,performance_score,location
E1,Ann Lee,Sales,0.3,0.4,Remote
E2,Bob Ray,Zylon,,,
`

func watchConfig(t *testing.T, content string) *contract.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	cfg := contract.NewDefaultConfig()
	cfg.WatchFile = path
	return cfg
}

func TestNewRequiresWatchFile(t *testing.T) {
	_, err := New(contract.NewDefaultConfig(), store.NewManager(store.NewMemoryStore()))
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	cfg := watchConfig(t, roster)
	mgr := store.NewManager(store.NewMemoryStore())
	s, err := New(cfg, mgr)
	require.NoError(t, err)
	ctx := context.Background()

	imported, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, imported)

	imported, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.False(t, imported, "unchanged file must not be imported again")

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(cfg.WatchFile, later, later))
	imported, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, imported)

	history, err := core.GetHistoryResults(ctx, mgr)
	require.NoError(t, err)
	require.Len(t, history.Batches, 2)
	assert.Equal(t, "scheduler:"+cfg.WatchFile, history.Batches[1].Source)
	assert.Equal(t, 2, history.Batches[1].Total)
}

func TestRunOnceKeepsBatchOnBadFile(t *testing.T) {
	cfg := watchConfig(t, roster)
	mgr := store.NewManager(store.NewMemoryStore())
	s, err := New(cfg, mgr)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.RunOnce(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfg.WatchFile, []byte("employee_id,name\n"), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(cfg.WatchFile, later, later))
	imported, err := s.RunOnce(ctx)
	assert.Error(t, err)
	assert.False(t, imported)

	history, err := core.GetHistoryResults(ctx, mgr)
	require.NoError(t, err)
	assert.Len(t, history.Batches, 1)

	require.NoError(t, os.Remove(cfg.WatchFile))
	_, err = s.RunOnce(ctx)
	assert.ErrorContains(t, err, "stat watch file")
}

func TestSyncLogsFailureAndKeepsBatch(t *testing.T) {
	cfg := watchConfig(t, roster)
	mgr := store.NewManager(store.NewMemoryStore())
	s, err := New(cfg, mgr)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.True(t, s.Sync(ctx))

	require.NoError(t, os.Remove(cfg.WatchFile))
	assert.False(t, s.Sync(ctx))

	history, err := core.GetHistoryResults(ctx, mgr)
	require.NoError(t, err)
	assert.Len(t, history.Batches, 1)

	// Serving continues after a failed startup import
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.Next().After(time.Now()))
}

func TestStart(t *testing.T) {
	cfg := watchConfig(t, roster)
	s, err := New(cfg, store.NewManager(store.NewMemoryStore()))
	require.NoError(t, err)
	assert.True(t, s.Next().IsZero())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.Next().After(time.Now()))
}

func TestStartInvalidSchedule(t *testing.T) {
	cfg := watchConfig(t, roster)
	cfg.WatchSchedule = "not a schedule"
	s, err := New(cfg, store.NewManager(store.NewMemoryStore()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.Error(t, s.Start(ctx))
}
