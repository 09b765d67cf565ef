// Package scheduler re-imports a watched roster file on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/huangsam/retention/core"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler imports cfg.WatchFile whenever the schedule fires and the file changed.
type Scheduler struct {
	cfg  *contract.Config
	mgr  contract.StoreManager
	cron *cron.Cron

	mu      sync.Mutex
	lastMod time.Time
	entryID cron.EntryID
}

// New creates a Scheduler for the watch settings of cfg.
func New(cfg *contract.Config, mgr contract.StoreManager) (*Scheduler, error) {
	if cfg.WatchFile == "" {
		return nil, errors.New("watch-file is required for the scheduler")
	}
	l := cronLogger{}
	return &Scheduler{
		cfg:  cfg,
		mgr:  mgr,
		cron: cron.New(cron.WithLogger(l), cron.WithChain(cron.SkipIfStillRunning(l))),
	}, nil
}

// Start registers the job and runs it until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.cfg.WatchSchedule, func() { s.Sync(ctx) })
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.cfg.WatchSchedule, err)
	}
	s.entryID = id
	s.cron.Start()
	logger.Info().
		Str("file", s.cfg.WatchFile).
		Str("schedule", s.cfg.WatchSchedule).
		Time("next", s.Next()).
		Msg("scheduler started")

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		logger.Info().Msg("scheduler stopped")
	}()
	return nil
}

// Next returns the next scheduled run, zero before Start.
func (s *Scheduler) Next() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// RunOnce imports the watched file if it changed since the last successful import.
// It reports whether an import happened.
func (s *Scheduler) RunOnce(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.cfg.WatchFile)
	if err != nil {
		return false, fmt.Errorf("stat watch file: %w", err)
	}
	if !s.lastMod.IsZero() && !info.ModTime().After(s.lastMod) {
		logger.Debug().Str("file", s.cfg.WatchFile).Msg("watch file unchanged")
		return false, nil
	}

	record, err := core.ImportFile(core.WithSuppressHeader(ctx), s.cfg, s.mgr, s.cfg.WatchFile, "scheduler:"+s.cfg.WatchFile)
	if err != nil {
		return false, err
	}
	s.lastMod = info.ModTime()
	logger.Info().
		Str("batch_id", record.BatchID).
		Int("total", record.Total).
		Msg("scheduled import done")
	return true, nil
}

// Sync runs RunOnce and logs a failure instead of returning it.
// The stored batch stays in place when the import fails.
func (s *Scheduler) Sync(ctx context.Context) bool {
	imported, err := s.RunOnce(ctx)
	if err != nil {
		logger.Error().Err(err).Str("file", s.cfg.WatchFile).Msg("scheduled import failed")
	}
	return imported
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
