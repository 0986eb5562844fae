package domain

import "time"

// RunStatus represents the terminal status of a pipeline run.
// Values include RunStatusSucceeded, RunStatusNoop, and RunStatusFailed.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusNoop      RunStatus = "noop"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun is the audit record for one pipeline invocation. One row is
// written per run regardless of outcome; the checkpoint itself lives in the
// state file, not here.
type PipelineRun struct {
	ID             string     `gorm:"type:text;primaryKey" json:"id"`
	WindowStart    Date       `gorm:"type:text" json:"window_start"`
	WindowEnd      Date       `gorm:"type:text" json:"window_end"`
	Status         RunStatus  `gorm:"type:text;index:idx_pipeline_runs_status;default:failed" json:"status"`
	TotalCompanies int        `gorm:"default:0" json:"total_companies"`
	LoadedRecords  int64      `gorm:"default:0" json:"loaded_records"`
	ErrorLog       string     `gorm:"type:text" json:"error_log,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// TableName returns the database table name for PipelineRun.
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
