package memory

import (
	"context"
	"easy11ML/domain"
	"fmt"
	"sort"
	"sync"
)

type PipelineRunRepository struct {
	mu   sync.RWMutex
	runs map[string]domain.PipelineRun
}

func NewPipelineRunRepository() *PipelineRunRepository {
	return &PipelineRunRepository{runs: make(map[string]domain.PipelineRun)}
}

func (r *PipelineRunRepository) SaveRun(ctx context.Context, run *domain.PipelineRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

func (r *PipelineRunRepository) LatestRuns(ctx context.Context, flow string, limit int) ([]domain.PipelineRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	out := make([]domain.PipelineRun, 0, len(r.runs))
	for _, run := range r.runs {
		if run.Flow == flow {
			out = append(out, run)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
