package domain

import "time"

// PlaceholderSummary is the summary of the synthetic task emitted for an epic without tasks.
const PlaceholderSummary = "No tasks created"

// Epic is the root of a report section
type Epic struct {
	Key     string
	Summary string
}

// Task is a work item attached to an epic
type Task struct {
	Key              string
	Summary          string
	Status           string
	CommentText      string
	CommentTimestamp *time.Time
	ParentEpicKey    string
	// Placeholder marks the synthetic "No tasks created" entry, it never carries a status.
	Placeholder bool
	SubTasks    []SubTask
}

// SubTask is a work item attached to a task, always a leaf
type SubTask struct {
	Key              string
	Summary          string
	Status           string
	CommentText      string
	CommentTimestamp *time.Time
	ParentTaskKey    string
}

// EpicTree is the fully fetched hierarchy of one epic
type EpicTree struct {
	Epic  Epic
	Tasks []Task
}

// NewPlaceholderTask builds the entry used when an epic has no tasks.
func NewPlaceholderTask(epicKey string) Task {
	return Task{
		Summary:       PlaceholderSummary,
		ParentEpicKey: epicKey,
		Placeholder:   true,
	}
}

// IssueRecord is the subset of a tracker issue the report consumes
type IssueRecord struct {
	Key     string
	Summary string
	Status  string
}

// CommentRecord is a single tracker comment. Body is the decoded rich-text
// document or whatever the tracker returned in its place.
type CommentRecord struct {
	Body    any
	Created string
}
