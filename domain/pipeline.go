package domain

import "time"

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// PipelineRun records one execution of a batch flow.
type PipelineRun struct {
	ID         string     `gorm:"column:id;primaryKey" json:"id"`
	Flow       string     `gorm:"column:flow;not null;index" json:"flow"`
	Status     string     `gorm:"column:status;not null" json:"status"`
	FailedTask string     `gorm:"column:failed_task" json:"failed_task,omitempty"`
	Error      string     `gorm:"column:error" json:"error,omitempty"`
	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (PipelineRun) TableName() string {
	return "pipeline_runs"
}

// TaskResult is what a single flow task reports back.
type TaskResult struct {
	Task     string         `json:"task"`
	Attempts int            `json:"attempts"`
	Duration time.Duration  `json:"duration"`
	Output   map[string]any `json:"output,omitempty"`
}
