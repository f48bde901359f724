package pipeline

import (
	"context"
	"iter"
	"runtime"

	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

// YieldEvery is how many records Results processes between scheduler yields.
const YieldEvery = 50

// ProgressFunc receives the number of processed records and the batch size.
type ProgressFunc func(current, total int)

// Results lazily runs each demand against pool in input order. Iteration
// stops when the consumer breaks or ctx is done.
func (p *Pipeline) Results(ctx context.Context, demands []models.DemandRecord, pool []models.SupplyRecord) iter.Seq2[int, models.PipelineResult] {
	return func(yield func(int, models.PipelineResult) bool) {
		for i, demand := range demands {
			if ctx.Err() != nil {
				return
			}
			if !yield(i, p.Run(demand, pool)) {
				return
			}
			if (i+1)%YieldEvery == 0 {
				runtime.Gosched()
			}
		}
	}
}

// RunBatch collects Results eagerly. On cancellation it returns the results
// produced so far together with ctx.Err().
func (p *Pipeline) RunBatch(ctx context.Context, demands []models.DemandRecord, pool []models.SupplyRecord, progress ProgressFunc) ([]models.PipelineResult, error) {
	results := make([]models.PipelineResult, 0, len(demands))
	composed := 0
	for i, res := range p.Results(ctx, demands, pool) {
		results = append(results, res)
		if res.IsComposed() {
			composed++
		}
		if progress != nil {
			progress(i+1, len(demands))
		}
		if (i+1)%p.progressEvery == 0 {
			p.log.Info("Batch progress", map[string]interface{}{
				"processed": i + 1,
				"total":     len(demands),
				"composed":  composed,
			})
		}
	}
	if len(results) < len(demands) {
		p.log.Warn("Batch cancelled", map[string]interface{}{"processed": len(results), "total": len(demands)})
		return results, ctx.Err()
	}
	return results, nil
}

// Partition splits results into composed and dropped, preserving order.
func Partition(results []models.PipelineResult) (composed, dropped []models.PipelineResult) {
	for _, res := range results {
		if res.IsComposed() {
			composed = append(composed, res)
		} else {
			dropped = append(dropped, res)
		}
	}
	return composed, dropped
}

// Stats counts outcomes. Every drop reason is present in DropReasons, even
// with a zero count.
func Stats(results []models.PipelineResult) models.Stats {
	stats := models.Stats{
		Total:       len(results),
		DropReasons: make(map[models.DropReason]int, len(models.DropReasons)),
	}
	for _, reason := range models.DropReasons {
		stats.DropReasons[reason] = 0
	}
	for _, res := range results {
		if res.IsComposed() {
			stats.Composed++
			continue
		}
		stats.Dropped++
		stats.DropReasons[res.Reason]++
	}
	return stats
}
