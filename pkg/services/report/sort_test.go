package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

func at(hour int) *time.Time {
	ts := time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC)
	return &ts
}

func TestStatusRank(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{"In Progress", 1},
		{"Waiting", 2},
		{"For approval", 3},
		{"New", 4},
		{"Done", 5},
		{"  done ", 5},
		{"IN PROGRESS", 1},
		{"Blocked", 5},
		{"", 5},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusRank(tc.status))
		})
	}
}

func TestSortTasks_StatusThenNewestComment(t *testing.T) {
	tasks := []domain.Task{
		{Key: "T-1", Status: "Done", CommentTimestamp: at(9)},
		{Key: "T-2", Status: "New", CommentTimestamp: at(1)},
		{Key: "T-3", Status: "In Progress", CommentTimestamp: at(2)},
		{Key: "T-4", Status: "Waiting"},
		{Key: "T-5", Status: "In Progress", CommentTimestamp: at(5)},
		{Key: "T-6", Status: "Unknown status", CommentTimestamp: at(10)},
		{Key: "T-7", Status: "For approval", CommentTimestamp: at(3)},
		{Key: "T-8", Status: "In Progress"},
	}

	sorted := SortTasks(tasks)

	keys := make([]string, 0, len(sorted))
	for _, task := range sorted {
		keys = append(keys, task.Key)
	}
	assert.Equal(t, []string{"T-5", "T-3", "T-8", "T-4", "T-7", "T-2", "T-6", "T-1"}, keys)
	assert.Equal(t, "T-1", tasks[0].Key, "input must not be reordered")

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		require.LessOrEqual(t, StatusRank(prev.Status), StatusRank(cur.Status))
		if StatusRank(prev.Status) == StatusRank(cur.Status) && prev.CommentTimestamp != nil && cur.CommentTimestamp != nil {
			assert.False(t, cur.CommentTimestamp.After(*prev.CommentTimestamp))
		}
	}
}

func TestSortTasks_StableForEqualKeys(t *testing.T) {
	tasks := []domain.Task{
		{Key: "T-1", Status: "New"},
		{Key: "T-2", Status: "New"},
		{Key: "T-3", Status: "New", CommentTimestamp: at(4)},
		{Key: "T-4", Status: "New"},
	}

	sorted := SortTasks(tasks)

	assert.Equal(t, "T-3", sorted[0].Key)
	assert.Equal(t, "T-1", sorted[1].Key)
	assert.Equal(t, "T-2", sorted[2].Key)
	assert.Equal(t, "T-4", sorted[3].Key)
}

func TestSortTasks_PlaceholderKeepsPosition(t *testing.T) {
	sorted := SortTasks([]domain.Task{domain.NewPlaceholderTask("E-1")})

	require.Len(t, sorted, 1)
	assert.True(t, sorted[0].Placeholder)
}

func TestSortSubTasks_ParentKeyBreaksTies(t *testing.T) {
	subTasks := []domain.SubTask{
		{Key: "S-1", Status: "New", ParentTaskKey: "T-9"},
		{Key: "S-2", Status: "In Progress", ParentTaskKey: "T-2", CommentTimestamp: at(1)},
		{Key: "S-3", Status: "New", ParentTaskKey: "T-1"},
		{Key: "S-4", Status: "In Progress", ParentTaskKey: "T-1", CommentTimestamp: at(1)},
		{Key: "S-5", Status: "In Progress", ParentTaskKey: "T-3", CommentTimestamp: at(8)},
	}

	sorted := SortSubTasks(subTasks)

	keys := make([]string, 0, len(sorted))
	for _, sub := range sorted {
		keys = append(keys, sub.Key)
	}
	assert.Equal(t, []string{"S-5", "S-4", "S-2", "S-3", "S-1"}, keys)
}

func TestSortEpic_FlattensSubTasks(t *testing.T) {
	tree := domain.EpicTree{
		Epic: domain.Epic{Key: "E-1"},
		Tasks: []domain.Task{
			{Key: "T-1", Status: "Done", SubTasks: []domain.SubTask{{Key: "S-1", ParentTaskKey: "T-1", Status: "New"}}},
			{Key: "T-2", Status: "New", SubTasks: []domain.SubTask{{Key: "S-2", ParentTaskKey: "T-2", Status: "In Progress"}}},
		},
	}

	sorted := SortEpic(tree)

	assert.Equal(t, tree.Epic, sorted.Epic)
	require.Len(t, sorted.Tasks, 2)
	assert.Equal(t, "T-2", sorted.Tasks[0].Key)
	require.Len(t, sorted.SubTasks, 2)
	assert.Equal(t, "S-2", sorted.SubTasks[0].Key)
	assert.Equal(t, "T-1", tree.Tasks[0].Key)
}
