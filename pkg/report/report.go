// Package report records the outcome of a provisioning run step by step and
// writes it out as a JSON artifact and a terminal summary.
package report

import (
	"time"
)

// Status is the outcome of a step or a whole run.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// StepResult records one workflow step.
type StepResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Strategy string        `json:"strategy,omitempty"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Report is the record of one provisioning run.
type Report struct {
	RunID     string       `json:"run_id"`
	Email     string       `json:"email"`
	Workspace string       `json:"workspace"`
	Driver    string       `json:"driver"`
	Headless  bool         `json:"headless"`
	Status    Status       `json:"status"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Duration  string       `json:"duration"`
	Steps     []StepResult `json:"steps"`
	Error     string       `json:"error,omitempty"`
	LogPath   string       `json:"log_path,omitempty"`
}

// New starts a report for a run.
func New(runID, email, workspace string) *Report {
	return &Report{
		RunID:     runID,
		Email:     email,
		Workspace: workspace,
		Status:    StatusRunning,
		StartTime: time.Now(),
	}
}

// AddStep appends a step result.
func (r *Report) AddStep(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// Step returns the named step result, if recorded.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Finish stamps the end time and overall status.
func (r *Report) Finish(err error) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime).Round(time.Millisecond).String()
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = StatusSuccess
}

// TotalAttempts sums strategy attempts over all steps.
func (r *Report) TotalAttempts() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Attempts
	}
	return total
}
