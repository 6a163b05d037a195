package model

import "time"

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// PipelineRun records one crawl-and-qualify cycle.
type PipelineRun struct {
	ID         string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time

	Fetched    int
	Duplicates int
	Qualified  int
	Rejected   int
	Failed     int
}
