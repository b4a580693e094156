package store

import "time"

type Run struct {
	ID         string
	ProjectKey string
	FilePath   string
	Epics      int
	Rows       int
	Plain      bool
	Recipient  *string
	Status     string
	Error      *string
	CreatedAt  time.Time
}
