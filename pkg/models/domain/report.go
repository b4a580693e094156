package domain

import "time"

// RowMarker tags rows that are not plain data rows
type RowMarker string

const (
	RowMarkerNone   RowMarker = ""
	RowMarkerHeader RowMarker = "header"
	RowMarkerSpacer RowMarker = "spacer"
)

// Column positions of a report row.
const (
	ColumnIndent = iota
	ColumnKey
	ColumnSummary
	ColumnStatus
	ColumnTimestamp
	ColumnComment

	ColumnCount
)

// Indent levels used by the layout.
const (
	IndentTask    = 0
	IndentSubTask = 1
	IndentSpacer  = 3
)

// TimestampLayout is the display format of comment timestamps
const TimestampLayout = "2006-01-02 15:04:05 -0700"

// ReportRow is one rendered line of the report grid
type ReportRow struct {
	Columns       []string
	IndentLevel   int
	Marker        RowMarker
	HighlightDone bool
}

func (r ReportRow) IsHeader() bool {
	return r.Marker == RowMarkerHeader
}

func (r ReportRow) IsSpacer() bool {
	return r.Marker == RowMarkerSpacer
}

// Column returns the value at idx or an empty string when the row is shorter.
func (r ReportRow) Column(idx int) string {
	if idx < 0 || idx >= len(r.Columns) {
		return ""
	}
	return r.Columns[idx]
}

// Report is the laid out result of one generation run
type Report struct {
	ProjectKey  string
	GeneratedAt time.Time
	Epics       []EpicTree
	Rows        []ReportRow
}
