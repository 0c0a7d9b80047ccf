package ingestions

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an ingestion job. Any transition is allowed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Statuses lists every accepted status.
func Statuses() []Status {
	return []Status{StatusPending, StatusRunning, StatusCompleted, StatusFailed}
}

// ParseStatus accepts the canonical values plus "in-progress" for running.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, true
	case "running", "in-progress", "in_progress":
		return StatusRunning, true
	case "completed":
		return StatusCompleted, true
	case "failed":
		return StatusFailed, true
	default:
		return "", false
	}
}

// Job tracks one ingestion run. Logs only ever grow.
type Job struct {
	ID         string    `json:"id"`
	SourceType string    `json:"sourceType"`
	Status     Status    `json:"status"`
	Logs       []string  `json:"logs"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Patch is the set of changes an update applies.
type Patch struct {
	Status     *Status
	CreatedAt  *time.Time
	AppendLogs []string
	UpdatedAt  time.Time
}

func (p Patch) apply(job Job) Job {
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.CreatedAt != nil {
		job.CreatedAt = *p.CreatedAt
	}
	if len(p.AppendLogs) > 0 {
		logs := make([]string, 0, len(job.Logs)+len(p.AppendLogs))
		logs = append(logs, job.Logs...)
		job.Logs = append(logs, p.AppendLogs...)
	}
	job.UpdatedAt = p.UpdatedAt
	return job
}
