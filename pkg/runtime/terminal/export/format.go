package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

// EpicHeaderPattern matches header captions such as "Billing (PROJ-12)".
func EpicHeaderPattern(projectKey string) *regexp.Regexp {
	return regexp.MustCompile(`^.+\(` + regexp.QuoteMeta(projectKey) + `-\d+\)$`)
}

// FormatStats counts what a formatting pass touched
type FormatStats struct {
	Headers int
	Rows    int
	Done    int
}

// FormatFile styles a grid previously written in plain mode. Epic headers
// are recognised by their caption, Done rows by the status column.
func (c *Reporter) FormatFile(ctx context.Context, path, projectKey string) (FormatStats, error) {
	var stats FormatStats

	f, err := excelize.OpenFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return stats, fmt.Errorf("failed to read rows of %s: %w", path, err)
	}

	pattern := EpicHeaderPattern(projectKey)
	styles := newStyleSet(f)
	for i, cells := range rows {
		excelRow := i + 1
		first := cellAt(cells, domain.ColumnIndent)

		switch {
		case pattern.MatchString(first):
			if err := styles.header(excelRow); err != nil {
				return stats, err
			}
			stats.Headers++
		case hasValue(cells):
			done := strings.EqualFold(strings.TrimSpace(cellAt(cells, domain.ColumnStatus)), "done")
			if err := styles.data(excelRow, domain.IndentTask, done); err != nil {
				return stats, err
			}
			stats.Rows++
			if done {
				stats.Done++
			}
		}
	}

	if err := setColumnWidths(f, c.config); err != nil {
		return stats, err
	}
	if err := f.Save(); err != nil {
		return stats, fmt.Errorf("failed to save %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("path", path).
		Int("headers", stats.Headers).
		Int("rows", stats.Rows).
		Msg("report formatted")
	return stats, nil
}

func cellAt(cells []string, idx int) string {
	if idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func hasValue(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
