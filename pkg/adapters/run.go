package adapters

import (
	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/models/store"
)

func MapStoreRunToDomain(r *store.Run) *domain.Run {
	if r == nil {
		return nil
	}

	run := &domain.Run{
		ID:         r.ID,
		ProjectKey: r.ProjectKey,
		FilePath:   r.FilePath,
		Epics:      r.Epics,
		Rows:       r.Rows,
		Plain:      r.Plain,
		Status:     domain.RunStatus(r.Status),
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
	if r.Recipient != nil {
		run.Recipient = *r.Recipient
	}
	return run
}

func MapDomainRunToStore(r *domain.Run) *store.Run {
	run := &store.Run{
		ID:         r.ID,
		ProjectKey: r.ProjectKey,
		FilePath:   r.FilePath,
		Epics:      r.Epics,
		Rows:       r.Rows,
		Plain:      r.Plain,
		Status:     string(r.Status),
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
	if r.Recipient != "" {
		recipient := r.Recipient
		run.Recipient = &recipient
	}
	return run
}
