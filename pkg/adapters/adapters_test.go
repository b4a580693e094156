package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/models/store"
)

func TestMapStoreIssue(t *testing.T) {
	issue := store.Issue{
		Key: "NOOPT-2",
		Fields: store.IssueFields{
			Summary: "Invoice export",
			Status:  store.IssueStatus{Name: "In Progress"},
		},
	}

	assert.Equal(t, domain.Epic{Key: "NOOPT-2", Summary: "Invoice export"}, MapStoreIssueToEpic(issue))
	assert.Equal(t, domain.IssueRecord{Key: "NOOPT-2", Summary: "Invoice export", Status: "In Progress"}, MapStoreIssueToRecord(issue))
}

func TestRunMapping_RecipientIsOptional(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	withoutRecipient := MapDomainRunToStore(&domain.Run{ID: "r1", Status: domain.RunStatusFinished, CreatedAt: createdAt})
	assert.Nil(t, withoutRecipient.Recipient)
	assert.Equal(t, "finished", withoutRecipient.Status)

	withRecipient := MapDomainRunToStore(&domain.Run{ID: "r2", Recipient: "lead@example.com"})
	assert.Equal(t, "lead@example.com", *withRecipient.Recipient)
	assert.Equal(t, "lead@example.com", MapStoreRunToDomain(withRecipient).Recipient)

	assert.Nil(t, MapStoreRunToDomain(nil))
}

func TestMapDomainReportToAPI(t *testing.T) {
	report := &domain.Report{
		ProjectKey: "NOOPT",
		Epics:      []domain.EpicTree{{}, {}},
		Rows: []domain.ReportRow{
			{Columns: []string{"Billing (NOOPT-1)"}, Marker: domain.RowMarkerHeader},
			{Columns: []string{"", "NOOPT-2"}, HighlightDone: true},
		},
	}

	got := MapDomainReportToAPI(report)

	assert.Equal(t, 2, got.Epics)
	assert.Equal(t, "header", got.Rows[0].Marker)
	assert.Empty(t, got.Rows[1].Marker)
	assert.True(t, got.Rows[1].HighlightDone)
}
