package report

import (
	"slices"
	"strings"
	"time"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

// unknownStatusRank puts unrecognized statuses in the same bucket as Done.
const unknownStatusRank = 5

var statusRanks = map[string]int{
	"in progress":  1,
	"waiting":      2,
	"for approval": 3,
	"new":          4,
	"done":         5,
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// StatusRank returns the sort bucket of a status, lower is more urgent.
func StatusRank(status string) int {
	if rank, ok := statusRanks[normalizeStatus(status)]; ok {
		return rank
	}
	return unknownStatusRank
}

func IsDone(status string) bool {
	return normalizeStatus(status) == "done"
}

// SortedEpic is an epic with its tasks and all of its sub-tasks in report order
type SortedEpic struct {
	Epic     domain.Epic
	Tasks    []domain.Task
	SubTasks []domain.SubTask
}

// SortEpic orders the tasks and the flattened sub-tasks of one epic. The tree is not modified.
func SortEpic(tree domain.EpicTree) SortedEpic {
	var subTasks []domain.SubTask
	for _, task := range tree.Tasks {
		subTasks = append(subTasks, task.SubTasks...)
	}

	return SortedEpic{
		Epic:     tree.Epic,
		Tasks:    SortTasks(tree.Tasks),
		SubTasks: SortSubTasks(subTasks),
	}
}

// SortTasks returns tasks ordered by status bucket then newest comment first.
// Placeholders are kept after the real tasks in their original order.
func SortTasks(tasks []domain.Task) []domain.Task {
	sorted := make([]domain.Task, 0, len(tasks))
	var placeholders []domain.Task
	for _, task := range tasks {
		if task.Placeholder {
			placeholders = append(placeholders, task)
			continue
		}
		sorted = append(sorted, task)
	}

	slices.SortStableFunc(sorted, func(a, b domain.Task) int {
		if c := StatusRank(a.Status) - StatusRank(b.Status); c != 0 {
			return c
		}
		return newestFirst(a.CommentTimestamp, b.CommentTimestamp)
	})

	return append(sorted, placeholders...)
}

// SortSubTasks orders by status bucket, newest comment first, then parent key.
func SortSubTasks(subTasks []domain.SubTask) []domain.SubTask {
	sorted := slices.Clone(subTasks)
	slices.SortStableFunc(sorted, func(a, b domain.SubTask) int {
		if c := StatusRank(a.Status) - StatusRank(b.Status); c != 0 {
			return c
		}
		if c := newestFirst(a.CommentTimestamp, b.CommentTimestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ParentTaskKey, b.ParentTaskKey)
	})
	return sorted
}

// newestFirst compares timestamps descending, missing timestamps go last.
func newestFirst(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return b.Compare(*a)
	}
}
