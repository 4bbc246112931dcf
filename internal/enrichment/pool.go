package enrichment

import (
	"context"
	"errors"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/config"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

// Pool runs analyses concurrently with bounded parallelism
type Pool struct {
	analyzer Analyzer
	pool     pond.ResultPool[map[string]any]
}

// NewPool creates a pool over analyzer
func NewPool(analyzer Analyzer, cfg config.PoolConfig) *Pool {
	size := cfg.PoolSize
	if size <= 0 {
		size = 1
	}

	opts := []pond.Option{}
	if cfg.QueueSize > 0 {
		opts = append(opts, pond.WithQueueSize(cfg.QueueSize))
	}

	return &Pool{
		analyzer: analyzer,
		pool:     pond.NewResultPool[map[string]any](size, opts...),
	}
}

// AnalyzeAll analyzes every kwargs set with the same template and returns the results in input order.
// Cancelled or rejected analyses yield empty maps.
func (p *Pool) AnalyzeAll(ctx context.Context, template string, kwargsList []map[string]any) []map[string]any {
	results := make([]map[string]any, len(kwargsList))
	if len(kwargsList) == 0 {
		return results
	}

	// every task runs so the outputs stay aligned with the inputs
	group := p.pool.NewGroup()
	for _, kwargs := range kwargsList {
		group.Submit(func() map[string]any {
			if ctx.Err() != nil {
				return map[string]any{}
			}
			return p.analyzer.Analyze(ctx, template, kwargs)
		})
	}

	out, err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		logger.WarnCtx(ctx, "Analysis group encountered error", zap.Error(err))
	}

	for i := range results {
		if i < len(out) && out[i] != nil {
			results[i] = out[i]
		} else {
			results[i] = map[string]any{}
		}
	}
	return results
}

// Stop waits for running analyses and releases the workers
func (p *Pool) Stop() {
	p.pool.StopAndWait()
}
