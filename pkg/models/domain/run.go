package domain

import "time"

type RunStatus string

const (
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
)

// Run describes one report generation
type Run struct {
	ID         string
	ProjectKey string
	FilePath   string
	Epics      int
	Rows       int
	Plain      bool
	Recipient  string
	Status     RunStatus
	Error      *string
	CreatedAt  time.Time
}
