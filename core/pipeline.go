package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/retention/core/agg"
	"github.com/huangsam/retention/core/algo"
	"github.com/huangsam/retention/core/normalize"
	"github.com/huangsam/retention/internal/contract"
	"github.com/huangsam/retention/internal/ingest"
	"github.com/huangsam/retention/internal/logger"
	"github.com/huangsam/retention/schema"
)

// ErrContractViolation is returned when a record that reaches the scorer
// breaks its input contract. The whole batch is rejected.
var ErrContractViolation = errors.New("contract violation")

// ProcessBatch normalizes, scores and generates interventions for every row.
// Nothing is persisted here; a cancelled or rejected batch is simply discarded.
func ProcessBatch(ctx context.Context, rows []schema.RawRow, source string, cfg *contract.Config) (schema.Batch, error) {
	return ScoreRecords(ctx, normalize.Normalize(rows), source, cfg)
}

// ScoreRecords is ProcessBatch for records that are already normalized.
func ScoreRecords(ctx context.Context, records []schema.EmployeeRecord, source string, cfg *contract.Config) (schema.Batch, error) {
	now := clockFrom(ctx)().UTC()
	opts := scoreOptions(cfg, now)
	batch := schema.Batch{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Source:    source,
		AsOf:      opts.AsOf,
		Employees: make([]schema.ScoredEmployee, 0, len(records)),
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return schema.Batch{}, fmt.Errorf("batch %s abandoned: %w", batch.ID, err)
		}
		scored, err := scoreEmployee(rec, opts, now)
		if err != nil {
			logger.Error().
				Err(err).
				Str("batch_id", batch.ID).
				Str("employee_id", rec.EmployeeID).
				Msg("batch rejected")
			return schema.Batch{}, err
		}
		batch.Employees = append(batch.Employees, scored)
	}

	logger.Debug().
		Str("batch_id", batch.ID).
		Str("source", source).
		Int("employees", len(batch.Employees)).
		Msg("batch scored")
	return batch, nil
}

// ScoreRow scores a single ad-hoc row without touching any batch.
func ScoreRow(ctx context.Context, row schema.RawRow, cfg *contract.Config) (schema.ScoredEmployee, error) {
	now := clockFrom(ctx)().UTC()
	return scoreEmployee(normalize.NormalizeRow(0, row), scoreOptions(cfg, now), now)
}

// ImportReader reads a roster, scores it and replaces the stored batch.
// The returned record is the history snapshot of the new batch.
func ImportReader(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, r io.Reader, name, source string) (schema.BatchRecord, error) {
	store, err := batchStore(mgr)
	if err != nil {
		return schema.BatchRecord{}, err
	}
	rows, err := ingest.Read(r, name)
	if err != nil {
		return schema.BatchRecord{}, err
	}
	batch, err := ProcessBatch(ctx, rows, source, cfg)
	if err != nil {
		return schema.BatchRecord{}, err
	}
	if err := store.SaveBatch(ctx, batch); err != nil {
		return schema.BatchRecord{}, fmt.Errorf("save batch: %w", err)
	}
	record := agg.SnapshotOf(batch)
	logger.Info().
		Str("batch_id", record.BatchID).
		Str("source", source).
		Int("total", record.Total).
		Int("critical", record.Critical).
		Msg("batch saved")
	return record, nil
}

// ImportFile is ImportReader for a file on disk.
func ImportFile(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, path, source string) (schema.BatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.BatchRecord{}, fmt.Errorf("open roster: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ImportReader(ctx, cfg, mgr, f, filepath.Base(path), source)
}

func scoreEmployee(rec schema.EmployeeRecord, opts algo.ScoreOptions, now time.Time) (schema.ScoredEmployee, error) {
	assessment, err := algo.Score(rec, opts)
	if err != nil {
		if errors.Is(err, algo.ErrNonFinite) {
			return schema.ScoredEmployee{}, fmt.Errorf("%w: %w", ErrContractViolation, err)
		}
		return schema.ScoredEmployee{}, err
	}
	return schema.ScoredEmployee{
		Employee:      rec,
		Assessment:    assessment,
		Interventions: algo.GenerateInterventions(rec.EmployeeID, assessment, now),
	}, nil
}

// scoreOptions builds the scorer tables from the validated config.
// Jitter gets a fresh source per call so equal seeds give equal batches.
func scoreOptions(cfg *contract.Config, now time.Time) algo.ScoreOptions {
	opts := algo.DefaultScoreOptions(cfg.ReferenceTime(now))
	if cfg.ComputedWeights != nil {
		opts.Weights = cfg.ComputedWeights
	}
	if cfg.DepartmentBaselines != nil {
		opts.DepartmentBaselines = cfg.DepartmentBaselines
	}
	if cfg.MarketSalaries != nil {
		opts.MarketSalaries = cfg.MarketSalaries
	}
	if cfg.JitterEnabled {
		opts.Jitter = algo.NewJitter(cfg.JitterSeed, cfg.JitterAmplitude)
	}
	return opts
}

// batchStore returns the configured store or an error when there is none.
func batchStore(mgr contract.StoreManager) (contract.BatchStore, error) {
	if mgr == nil {
		return nil, errors.New("store is not initialized")
	}
	store := mgr.GetBatchStore()
	if store == nil {
		return nil, errors.New("store is not initialized")
	}
	return store, nil
}
