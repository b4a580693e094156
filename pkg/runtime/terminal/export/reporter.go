package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

const (
	sheetName       = "Sheet1"
	fileTimeLayout  = "2006-01-02_15-04-05"
	fileExtension   = ".xlsx"
	defaultPrefix   = "jira_report"
	lastColumnIndex = domain.ColumnCount - 1
)

// TableConfig holds the column widths of the grid, in the order of domain.Column*
type TableConfig struct {
	IndentWidth    float64
	KeyWidth       float64
	SummaryWidth   float64
	StatusWidth    float64
	TimestampWidth float64
	CommentWidth   float64
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IndentWidth:    4,
		KeyWidth:       15,
		SummaryWidth:   40,
		StatusWidth:    20,
		TimestampWidth: 25,
		CommentWidth:   50,
	}
}

func (tc TableConfig) widths() []float64 {
	return []float64{tc.IndentWidth, tc.KeyWidth, tc.SummaryWidth, tc.StatusWidth, tc.TimestampWidth, tc.CommentWidth}
}

type Options struct {
	Dir    string
	Prefix string
	// Plain skips every style, merge and width setting.
	Plain bool
}

// Reporter writes report rows into an xlsx workbook
type Reporter struct {
	config TableConfig
	dir    string
	prefix string
	plain  bool
}

func NewReporter(opts Options) *Reporter {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	return &Reporter{
		config: DefaultTableConfig(),
		dir:    opts.Dir,
		prefix: opts.Prefix,
		plain:  opts.Plain,
	}
}

// FileName returns the timestamped path a report generated at ts is saved under.
func (c *Reporter) FileName(ts time.Time) string {
	return filepath.Join(c.dir, c.prefix+"_"+ts.UTC().Format(fileTimeLayout)+fileExtension)
}

// Handle saves the report and returns the written path. A partially written file is removed.
func (c *Reporter) Handle(ctx context.Context, report *domain.Report) (string, error) {
	logger := zerolog.Ctx(ctx)

	f, err := c.Render(report.Rows)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := c.FileName(report.GeneratedAt)
	if err := f.SaveAs(path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn().Err(rmErr).Str("path", path).Msg("failed to remove incomplete report")
		}
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info().Str("path", path).Int("rows", len(report.Rows)).Bool("plain", c.plain).Msg("report saved")
	return path, nil
}

// Write streams the workbook for rows to w.
func (c *Reporter) Write(w io.Writer, rows []domain.ReportRow) error {
	f, err := c.Render(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Render builds the workbook in memory.
func (c *Reporter) Render(rows []domain.ReportRow) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := make([]interface{}, domain.ColumnCount)
		for col := range values {
			values[col] = row.Column(col)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if c.plain {
		return f, nil
	}

	if err := c.applyStyles(f, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (c *Reporter) applyStyles(f *excelize.File, rows []domain.ReportRow) error {
	styles := newStyleSet(f)

	for i, row := range rows {
		excelRow := i + 1
		switch {
		case row.IsSpacer():
			continue
		case row.IsHeader():
			if err := styles.header(excelRow); err != nil {
				return err
			}
		default:
			if row.IndentLevel == domain.IndentTask {
				if err := mergeKeyCells(f, excelRow, row.Column(domain.ColumnKey)); err != nil {
					return err
				}
			}
			if err := styles.data(excelRow, row.IndentLevel, row.HighlightDone); err != nil {
				return err
			}
		}
	}

	return setColumnWidths(f, c.config)
}

// mergeKeyCells moves a task key into the indent column and spans it over both columns.
func mergeKeyCells(f *excelize.File, excelRow int, key string) error {
	first, _ := excelize.CoordinatesToCellName(domain.ColumnIndent+1, excelRow)
	second, _ := excelize.CoordinatesToCellName(domain.ColumnKey+1, excelRow)
	if err := f.SetCellStr(sheetName, first, key); err != nil {
		return err
	}
	if err := f.MergeCell(sheetName, first, second); err != nil {
		return fmt.Errorf("failed to merge key cells of row %d: %w", excelRow, err)
	}
	return nil
}

func setColumnWidths(f *excelize.File, config TableConfig) error {
	for i, width := range config.widths() {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}
	return nil
}
