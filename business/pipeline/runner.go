package pipeline

import (
	"context"
	"easy11ML/domain"
	"easy11ML/pkg/logger"
	"easy11ML/pkg/metrics"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Task is one named step of a flow.
type Task struct {
	Name       string
	Retries    uint64
	RetryDelay time.Duration
	// Optional tasks log their failure and let the flow continue.
	Optional bool
	Run      func(ctx context.Context) (map[string]any, error)
}

// RunRepository persists flow run history.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.PipelineRun) error
	LatestRuns(ctx context.Context, flow string, limit int) ([]domain.PipelineRun, error)
}

// TaskError reports the task that stopped a flow.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

type Runner struct {
	runs  RunRepository
	newID func() string
	now   func() time.Time
}

// NewRunner accepts a nil repository, in which case runs are only logged.
func NewRunner(runs RunRepository) *Runner {
	return &Runner{
		runs:  runs,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Execute runs tasks in order and stops at the first required task that fails.
func (r *Runner) Execute(ctx context.Context, flow string, tasks []Task) (*domain.PipelineRun, []domain.TaskResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("context error: %w", err)
	}

	run := &domain.PipelineRun{
		ID:        r.newID(),
		Flow:      flow,
		Status:    domain.RunStatusRunning,
		StartedAt: r.now().UTC(),
	}
	r.save(ctx, run)
	logger.Info("pipeline flow started", "flow", flow, "run_id", run.ID, "tasks", len(tasks))

	results := make([]domain.TaskResult, 0, len(tasks))
	var flowErr error
	for _, task := range tasks {
		res, err := r.runTask(ctx, flow, task)
		results = append(results, res)
		if err == nil {
			continue
		}
		if task.Optional && ctx.Err() == nil {
			logger.Warn("optional pipeline task failed", "flow", flow, "task", task.Name, "error", err)
			continue
		}
		flowErr = &TaskError{Task: task.Name, Err: err}
		run.FailedTask = task.Name
		run.Error = err.Error()
		break
	}

	finished := r.now().UTC()
	run.FinishedAt = &finished
	run.Status = domain.RunStatusSucceeded
	if flowErr != nil {
		run.Status = domain.RunStatusFailed
	}
	// the caller's context may already be cancelled, the final status still has to land
	r.save(context.WithoutCancel(ctx), run)

	if flowErr != nil {
		logger.Error("pipeline flow failed", "flow", flow, "run_id", run.ID, "task", run.FailedTask, "error", flowErr)
		return run, results, flowErr
	}
	logger.Info("pipeline flow completed", "flow", flow, "run_id", run.ID, "duration", finished.Sub(run.StartedAt).String())
	return run, results, nil
}

func (r *Runner) runTask(ctx context.Context, flow string, task Task) (domain.TaskResult, error) {
	start := time.Now()
	res := domain.TaskResult{Task: task.Name}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(task.RetryDelay), task.Retries),
		ctx,
	)

	operation := func() error {
		res.Attempts++
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		out, err := task.Run(ctx)
		if err != nil {
			return err
		}
		res.Output = out
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("pipeline task failed, retrying",
			"flow", flow,
			"task", task.Name,
			"attempt", res.Attempts,
			"retry_in", wait.String(),
			"error", err,
		)
	}

	err := backoff.RetryNotify(operation, policy, notify)
	res.Duration = time.Since(start)

	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "cancelled"
	default:
		outcome = "failure"
	}
	metrics.PipelineTaskDuration.WithLabelValues(flow, task.Name).Observe(res.Duration.Seconds())
	metrics.PipelineTaskOutcomes.WithLabelValues(flow, task.Name, outcome).Inc()

	if err != nil {
		return res, err
	}
	logger.Info("pipeline task completed",
		"flow", flow,
		"task", task.Name,
		"attempts", res.Attempts,
		"duration", res.Duration.String(),
	)
	return res, nil
}

func (r *Runner) save(ctx context.Context, run *domain.PipelineRun) {
	if r.runs == nil {
		return
	}
	if err := r.runs.SaveRun(ctx, run); err != nil {
		logger.Warn("failed to persist pipeline run", "flow", run.Flow, "run_id", run.ID, "error", err)
	}
}
