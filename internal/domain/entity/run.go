package entity

import (
	"time"
)

// RunStatus describes where an ETL run ended up
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one execution of the ETL pipeline
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
	Status    RunStatus `json:"status"`
	Records   int       `json:"records"`
	Error     string    `json:"error,omitempty"`
}

// Finish marks the run as ended with the outcome of err
func (r *Run) Finish(at time.Time, records int, err error) {
	r.EndedAt = at
	r.Records = records
	if err != nil {
		r.Status = RunStatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = RunStatusSucceeded
}
