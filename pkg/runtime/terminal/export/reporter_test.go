package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

func sampleRows() []domain.ReportRow {
	return []domain.ReportRow{
		{Columns: []string{"Billing (NOOPT-1)", "", "", "", "", ""}, Marker: domain.RowMarkerHeader},
		{Columns: []string{"", "NOOPT-2", "Invoices", "Done", "2024-06-01 10:00:00 +0000", "shipped"}, HighlightDone: true},
		{Columns: []string{"", "NOOPT-3", "PDF export", "In Progress", "", ""}, IndentLevel: domain.IndentSubTask},
		{Columns: make([]string, domain.ColumnCount), IndentLevel: domain.IndentSpacer, Marker: domain.RowMarkerSpacer},
	}
}

func sampleReport() *domain.Report {
	return &domain.Report{
		ProjectKey:  "NOOPT",
		GeneratedAt: time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC),
		Rows:        sampleRows(),
	}
}

func mergedRanges(t *testing.T, f *excelize.File) []string {
	t.Helper()
	merges, err := f.GetMergeCells(sheetName)
	require.NoError(t, err)
	var ranges []string
	for _, m := range merges {
		ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	return ranges
}

func fillColor(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	id, err := f.GetCellStyle(sheetName, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	if len(style.Fill.Color) == 0 {
		return ""
	}
	return strings.ToUpper(style.Fill.Color[0])
}

func TestReporter_FileName(t *testing.T) {
	r := NewReporter(Options{Dir: "/reports"})

	name := r.FileName(time.Date(2024, 6, 1, 9, 30, 15, 0, time.FixedZone("CET", 3600)))

	assert.Equal(t, filepath.Join("/reports", "jira_report_2024-06-01_08-30-15.xlsx"), name)
}

func TestReporter_Handle_Styled(t *testing.T) {
	// Given
	dir := t.TempDir()
	r := NewReporter(Options{Dir: dir})

	// When
	path, err := r.Handle(context.Background(), sampleReport())

	// Then
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jira_report_2024-06-01_09-30-15.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Billing (NOOPT-1)", header)

	key, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "NOOPT-2", key)

	subKey, err := f.GetCellValue(sheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "NOOPT-3", subKey)

	assert.ElementsMatch(t, []string{"A1:F1", "A2:B2"}, mergedRanges(t, f))
	assert.True(t, strings.HasSuffix(fillColor(t, f, "A1"), headerColor))
	assert.True(t, strings.HasSuffix(fillColor(t, f, "F2"), doneColor))
	assert.Empty(t, fillColor(t, f, "C3"))

	width, err := f.GetColWidth(sheetName, "F")
	require.NoError(t, err)
	assert.Equal(t, 50.0, width)
}

func TestReporter_Handle_Plain(t *testing.T) {
	dir := t.TempDir()
	r := NewReporter(Options{Dir: dir, Prefix: "plain", Plain: true})

	path, err := r.Handle(context.Background(), sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Empty(t, mergedRanges(t, f))
	assert.Empty(t, fillColor(t, f, "A2"))

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"", "NOOPT-2", "Invoices", "Done", "2024-06-01 10:00:00 +0000", "shipped"}, rows[1])
}

func TestReporter_Handle_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	r := NewReporter(Options{Dir: filepath.Join(blocker, "nested")})

	_, err := r.Handle(context.Background(), sampleReport())

	assert.Error(t, err)
}

func TestReporter_Write(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{})

	require.NoError(t, r.Write(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(sheetName, "C3")
	require.NoError(t, err)
	assert.Equal(t, "PDF export", value)
}

func TestEpicHeaderPattern(t *testing.T) {
	pattern := EpicHeaderPattern("NOOPT")

	assert.True(t, pattern.MatchString("Billing (NOOPT-1)"))
	assert.True(t, pattern.MatchString(" (NOOPT-42)"))
	assert.False(t, pattern.MatchString("(NOOPT-1)"))
	assert.False(t, pattern.MatchString("Billing (OTHER-1)"))
	assert.False(t, pattern.MatchString("Billing (NOOPT-1) extra"))
	assert.False(t, pattern.MatchString("Billing (NOOPT-x)"))
}

func TestReporter_FormatFile(t *testing.T) {
	// Given: a plain grid on disk
	dir := t.TempDir()
	plain := NewReporter(Options{Dir: dir, Plain: true})
	path, err := plain.Handle(context.Background(), sampleReport())
	require.NoError(t, err)

	// When
	stats, err := NewReporter(Options{Dir: dir}).FormatFile(context.Background(), path, "NOOPT")

	// Then
	require.NoError(t, err)
	assert.Equal(t, FormatStats{Headers: 1, Rows: 2, Done: 1}, stats)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"A1:F1"}, mergedRanges(t, f))
	assert.True(t, strings.HasSuffix(fillColor(t, f, "B2"), doneColor))
	assert.Empty(t, fillColor(t, f, "B3"))
}

func TestReporter_FormatFile_Missing(t *testing.T) {
	_, err := NewReporter(Options{}).FormatFile(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), "NOOPT")

	assert.Error(t, err)
}
