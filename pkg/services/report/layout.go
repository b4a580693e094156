package report

import (
	"fmt"
	"time"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

// Layout sorts every epic and flattens the result into report rows.
func Layout(trees []domain.EpicTree) []domain.ReportRow {
	sorted := make([]SortedEpic, 0, len(trees))
	for _, tree := range trees {
		sorted = append(sorted, SortEpic(tree))
	}
	return LayoutSorted(sorted)
}

// LayoutSorted emits, per epic: a header row, each task followed by its
// sub-tasks, and a closing spacer row.
func LayoutSorted(epics []SortedEpic) []domain.ReportRow {
	var rows []domain.ReportRow
	for _, epic := range epics {
		rows = append(rows, headerRow(epic.Epic))

		byParent := make(map[string][]domain.SubTask)
		for _, sub := range epic.SubTasks {
			byParent[sub.ParentTaskKey] = append(byParent[sub.ParentTaskKey], sub)
		}

		for _, task := range epic.Tasks {
			if task.Placeholder {
				rows = append(rows, placeholderRow())
				continue
			}

			rows = append(rows, itemRow(domain.IndentTask, task.Key, task.Summary, task.Status, task.CommentTimestamp, task.CommentText))
			for _, sub := range byParent[task.Key] {
				rows = append(rows, itemRow(domain.IndentSubTask, sub.Key, sub.Summary, sub.Status, sub.CommentTimestamp, sub.CommentText))
			}
		}

		rows = append(rows, spacerRow())
	}
	return rows
}

// HeaderText is the caption of an epic section, e.g. "Billing (PROJ-12)".
func HeaderText(epic domain.Epic) string {
	return fmt.Sprintf("%s (%s)", epic.Summary, epic.Key)
}

func FormatTimestamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format(domain.TimestampLayout)
}

func emptyColumns() []string {
	return make([]string, domain.ColumnCount)
}

func headerRow(epic domain.Epic) domain.ReportRow {
	columns := emptyColumns()
	columns[domain.ColumnIndent] = HeaderText(epic)
	return domain.ReportRow{
		Columns: columns,
		Marker:  domain.RowMarkerHeader,
	}
}

func itemRow(indent int, key, summary, status string, ts *time.Time, comment string) domain.ReportRow {
	columns := emptyColumns()
	columns[domain.ColumnKey] = key
	columns[domain.ColumnSummary] = summary
	columns[domain.ColumnStatus] = status
	columns[domain.ColumnTimestamp] = FormatTimestamp(ts)
	columns[domain.ColumnComment] = comment
	return domain.ReportRow{
		Columns:       columns,
		IndentLevel:   indent,
		HighlightDone: IsDone(status),
	}
}

func placeholderRow() domain.ReportRow {
	columns := emptyColumns()
	columns[domain.ColumnSummary] = domain.PlaceholderSummary
	return domain.ReportRow{
		Columns:     columns,
		IndentLevel: domain.IndentTask,
	}
}

func spacerRow() domain.ReportRow {
	return domain.ReportRow{
		Columns:     emptyColumns(),
		IndentLevel: domain.IndentSpacer,
		Marker:      domain.RowMarkerSpacer,
	}
}
