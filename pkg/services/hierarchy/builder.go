package hierarchy

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/services/document"
)

type TaskFetcher interface {
	FetchTasks(ctx context.Context, epicKey string) ([]domain.IssueRecord, error)
}

type SubTaskFetcher interface {
	FetchSubTasks(ctx context.Context, taskKey string) ([]domain.IssueRecord, error)
}

type CommentFetcher interface {
	FetchComments(ctx context.Context, issueKey string) ([]domain.CommentRecord, error)
}

type Options struct {
	// Concurrency is the number of epics fetched in parallel, values below 1 mean sequential.
	Concurrency int
	// OnEpic is invoked after an epic is complete. It may be called from several goroutines.
	OnEpic func(epic domain.Epic)
}

type Builder struct {
	tasks    TaskFetcher
	subTasks SubTaskFetcher
	comments CommentFetcher
	opts     Options
}

func NewBuilder(tasks TaskFetcher, subTasks SubTaskFetcher, comments CommentFetcher, opts Options) *Builder {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Builder{
		tasks:    tasks,
		subTasks: subTasks,
		comments: comments,
		opts:     opts,
	}
}

// Build fetches the children of every epic. Trees are returned in the order
// of epics regardless of which fetch finishes first; the first failure
// cancels the remaining work and no trees are returned.
func (b *Builder) Build(ctx context.Context, epics []domain.Epic) ([]domain.EpicTree, error) {
	trees := make([]domain.EpicTree, len(epics))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	for i, epic := range epics {
		g.Go(func() error {
			tree, err := b.BuildEpic(gctx, epic)
			if err != nil {
				return err
			}
			trees[i] = tree
			if b.opts.OnEpic != nil {
				b.opts.OnEpic(epic)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}

// BuildEpic fetches tasks, sub-tasks and latest comments of a single epic.
func (b *Builder) BuildEpic(ctx context.Context, epic domain.Epic) (domain.EpicTree, error) {
	if err := ctx.Err(); err != nil {
		return domain.EpicTree{}, err
	}

	logger := zerolog.Ctx(ctx).With().Str("epic", epic.Key).Logger()
	logger.Info().Str("summary", epic.Summary).Msg("processing epic")

	records, err := b.tasks.FetchTasks(ctx, epic.Key)
	if err != nil {
		return domain.EpicTree{}, &FetchError{EpicKey: epic.Key, IssueKey: epic.Key, Step: StepTasks, Err: err}
	}

	tree := domain.EpicTree{Epic: epic}
	if len(records) == 0 {
		logger.Info().Msg("epic has no tasks")
		tree.Tasks = []domain.Task{domain.NewPlaceholderTask(epic.Key)}
		return tree, nil
	}

	tree.Tasks = make([]domain.Task, 0, len(records))
	for _, record := range records {
		task, err := b.buildTask(ctx, epic.Key, record)
		if err != nil {
			return domain.EpicTree{}, err
		}
		tree.Tasks = append(tree.Tasks, task)
	}

	logger.Debug().Int("tasks", len(tree.Tasks)).Msg("epic fetched")
	return tree, nil
}

func (b *Builder) buildTask(ctx context.Context, epicKey string, record domain.IssueRecord) (domain.Task, error) {
	text, ts, err := b.latestComment(ctx, epicKey, record.Key)
	if err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		Key:              record.Key,
		Summary:          record.Summary,
		Status:           record.Status,
		CommentText:      text,
		CommentTimestamp: ts,
		ParentEpicKey:    epicKey,
	}

	children, err := b.subTasks.FetchSubTasks(ctx, record.Key)
	if err != nil {
		return domain.Task{}, &FetchError{EpicKey: epicKey, IssueKey: record.Key, Step: StepSubTasks, Err: err}
	}

	for _, child := range children {
		text, ts, err := b.latestComment(ctx, epicKey, child.Key)
		if err != nil {
			return domain.Task{}, err
		}
		task.SubTasks = append(task.SubTasks, domain.SubTask{
			Key:              child.Key,
			Summary:          child.Summary,
			Status:           child.Status,
			CommentText:      text,
			CommentTimestamp: ts,
			ParentTaskKey:    record.Key,
		})
	}

	return task, nil
}

// latestComment returns the text and creation time of the last comment of an issue.
func (b *Builder) latestComment(ctx context.Context, epicKey, issueKey string) (string, *time.Time, error) {
	comments, err := b.comments.FetchComments(ctx, issueKey)
	if err != nil {
		return "", nil, &FetchError{EpicKey: epicKey, IssueKey: issueKey, Step: StepComments, Err: err}
	}
	if len(comments) == 0 {
		zerolog.Ctx(ctx).Debug().Str("issue", issueKey).Msg("no comments found")
		return "", nil, nil
	}

	latest := comments[len(comments)-1]
	ts, err := ParseTimestamp(latest.Created)
	if err != nil {
		return "", nil, fmt.Errorf("epic %s: %w", epicKey, &TimestampError{IssueKey: issueKey, Value: latest.Created, Err: err})
	}

	return document.Extract(ctx, latest.Body), &ts, nil
}
