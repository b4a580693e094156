package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

type ConsoleConfig struct {
	KeyWidth       int
	SummaryWidth   int
	StatusWidth    int
	TimestampWidth int
	CommentWidth   int
}

func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		KeyWidth:       12,
		SummaryWidth:   36,
		StatusWidth:    14,
		TimestampWidth: 25,
		CommentWidth:   48,
	}
}

// Reporter prints report rows to the console as a text table
type Reporter struct {
	writer io.Writer
	config ConsoleConfig
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer, config: DefaultConsoleConfig()}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(row domain.ReportRow) string {
			key := clip(row.Column(domain.ColumnKey), c.config.KeyWidth)
			if row.IndentLevel == domain.IndentSubTask {
				key = "  " + clip(row.Column(domain.ColumnKey), c.config.KeyWidth-2)
			}
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s |",
				c.config.KeyWidth, key,
				c.config.SummaryWidth, clip(row.Column(domain.ColumnSummary), c.config.SummaryWidth),
				c.config.StatusWidth, clip(row.Column(domain.ColumnStatus), c.config.StatusWidth),
				c.config.TimestampWidth, clip(row.Column(domain.ColumnTimestamp), c.config.TimestampWidth),
				c.config.CommentWidth, clip(row.Column(domain.ColumnComment), c.config.CommentWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.KeyWidth+2),
				strings.Repeat("-", c.config.SummaryWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.TimestampWidth+2),
				strings.Repeat("-", c.config.CommentWidth+2))
		},
		"done": func(row domain.ReportRow) string {
			if row.HighlightDone {
				return " *"
			}
			return ""
		},
	}

	tmpl := `Epic report for {{.ProjectKey}} ({{len .Epics}} epics)
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}
{{range .Rows}}{{if .IsHeader}}
=== {{index .Columns 0}} ===
{{separator}}
{{else if .IsSpacer}}{{separator}}
{{else}}{{formatRow .}}{{done .}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// clip flattens multi-line text and truncates it to width runes.
func clip(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
