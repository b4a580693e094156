package adapters

import (
	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/models/store"
)

func MapStoreIssueToEpic(issue store.Issue) domain.Epic {
	return domain.Epic{
		Key:     issue.Key,
		Summary: issue.Fields.Summary,
	}
}

func MapStoreIssueToRecord(issue store.Issue) domain.IssueRecord {
	return domain.IssueRecord{
		Key:     issue.Key,
		Summary: issue.Fields.Summary,
		Status:  issue.Fields.Status.Name,
	}
}

func MapStoreCommentToRecord(comment store.Comment) domain.CommentRecord {
	return domain.CommentRecord{
		Body:    comment.Body,
		Created: comment.Created,
	}
}
