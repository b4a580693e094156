package hierarchy

import "fmt"

// Step names the fetch stage that failed
type Step string

const (
	StepTasks    Step = "tasks"
	StepSubTasks Step = "subtasks"
	StepComments Step = "comments"
)

// FetchError aborts a report run when the tracker could not be queried
type FetchError struct {
	EpicKey  string
	IssueKey string
	Step     Step
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s of %s (epic %s): %v", e.Step, e.IssueKey, e.EpicKey, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TimestampError is returned for comment dates in an unsupported format
type TimestampError struct {
	IssueKey string
	Value    string
	Err      error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("failed to parse comment timestamp %q of %s: %v", e.Value, e.IssueKey, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}
