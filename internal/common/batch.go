package common

import (
	"context"
	"math"
	"time"

	"hireall/internal/ats"
	"hireall/internal/errors"
	"hireall/internal/observability"
	"hireall/internal/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

// BatchOptions controls a batch run
type BatchOptions struct {
	Concurrency int
	Strict      bool
	Score       types.ScoreOptions
}

// BatchScorer scores many resume files with bounded concurrency
type BatchScorer struct {
	scorer        *ats.Scorer
	fileProcessor *FileProcessor
	logger        *errors.Logger
	om            *observability.ObservabilityManager
}

// NewBatchScorer creates a batch scorer. om may be nil.
func NewBatchScorer(scorer *ats.Scorer, fileProcessor *FileProcessor, logger *errors.Logger, om *observability.ObservabilityManager) *BatchScorer {
	return &BatchScorer{scorer: scorer, fileProcessor: fileProcessor, logger: logger, om: om}
}

// ScoreFiles scores every file and returns a report with results in input
// order. A file that cannot be read or decoded is recorded in its result; the
// only returned error is context cancellation.
func (b *BatchScorer) ScoreFiles(ctx context.Context, files []string, opts BatchOptions) (*types.BatchReport, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultBatchConcurrency
	}

	results := make([]types.BatchResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.scoreFile(gctx, file, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &types.BatchReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Results:     results,
	}

	total := 0
	for _, r := range results {
		if r.Error != "" {
			report.Failed++
			continue
		}
		report.Scored++
		total += r.Overall
	}
	if report.Scored > 0 {
		report.AverageOverall = math.Round(float64(total)/float64(report.Scored)*100) / 100
	}

	if b.logger != nil {
		b.logger.Info("Batch scoring completed",
			"batch_id", report.ID,
			"files", len(files),
			"scored", report.Scored,
			"failed", report.Failed,
			"concurrency", limit)
	}

	return report, nil
}

func (b *BatchScorer) scoreFile(ctx context.Context, file string, opts BatchOptions) types.BatchResult {
	result := types.BatchResult{File: file}
	start := time.Now()

	data, err := b.fileProcessor.ReadResume(file, opts.Strict)
	if err != nil {
		result.Error = err.Error()
		if b.logger != nil {
			b.logger.LogError(err, "Skipping resume in batch", "file", file)
		}
		b.om.GetMetrics().RecordScoring(ctx, "batch", time.Since(start), 0, err, b.om)
		return result
	}

	score := b.scorer.CalculateEnhancedATSScore(data, opts.Score)
	result.Overall = score.Overall
	result.ATS = score.ATS
	result.Completeness = score.Completeness

	b.om.GetMetrics().RecordScoring(ctx, "batch", time.Since(start), score.Overall, nil, b.om)
	return result
}
