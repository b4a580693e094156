package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/epic-report/pkg/models/domain"
)

type EpicSource interface {
	FetchEpics(ctx context.Context) ([]domain.Epic, error)
}

type TreeBuilder interface {
	Build(ctx context.Context, epics []domain.Epic) ([]domain.EpicTree, error)
}

// Generator runs the fetch, sort and layout steps of a report
type Generator struct {
	projectKey string
	epics      EpicSource
	builder    TreeBuilder
	now        func() time.Time
}

func NewGenerator(projectKey string, epics EpicSource, builder TreeBuilder) *Generator {
	return &Generator{
		projectKey: projectKey,
		epics:      epics,
		builder:    builder,
		now:        time.Now,
	}
}

func (g *Generator) Generate(ctx context.Context) (*domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	logger.Info().Str("project", g.projectKey).Msg("fetching epics")
	epics, err := g.epics.FetchEpics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch epics: %w", err)
	}
	logger.Info().Int("epics", len(epics)).Msg("epics fetched")

	trees, err := g.builder.Build(ctx, epics)
	if err != nil {
		return nil, fmt.Errorf("failed to build issue hierarchy: %w", err)
	}

	rows := Layout(trees)
	logger.Debug().Int("rows", len(rows)).Msg("report laid out")

	return &domain.Report{
		ProjectKey:  g.projectKey,
		GeneratedAt: g.now().UTC(),
		Epics:       trees,
		Rows:        rows,
	}, nil
}
