package adapters

import (
	"github.com/de-tools/epic-report/pkg/models/api"
	"github.com/de-tools/epic-report/pkg/models/domain"
)

func MapDomainReportToAPI(r *domain.Report) api.Report {
	rows := make([]api.ReportRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, api.ReportRow{
			Columns:       row.Columns,
			IndentLevel:   row.IndentLevel,
			Marker:        string(row.Marker),
			HighlightDone: row.HighlightDone,
		})
	}
	return api.Report{
		ProjectKey:  r.ProjectKey,
		GeneratedAt: r.GeneratedAt,
		Epics:       len(r.Epics),
		Rows:        rows,
	}
}

func MapDomainRunToAPI(r *domain.Run) api.Run {
	return api.Run{
		ID:         r.ID,
		ProjectKey: r.ProjectKey,
		FilePath:   r.FilePath,
		Epics:      r.Epics,
		Rows:       r.Rows,
		Plain:      r.Plain,
		Recipient:  r.Recipient,
		Status:     string(r.Status),
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
}
