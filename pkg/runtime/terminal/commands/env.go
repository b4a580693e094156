package commands

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/services/config"
	"github.com/de-tools/epic-report/pkg/services/hierarchy"
	"github.com/de-tools/epic-report/pkg/services/mail"
	"github.com/de-tools/epic-report/pkg/services/publish"
	"github.com/de-tools/epic-report/pkg/services/report"
	"github.com/de-tools/epic-report/pkg/store/duckdb"
	"github.com/de-tools/epic-report/pkg/store/duckdb/runs"
	"github.com/de-tools/epic-report/pkg/store/jira"
)

type Mailer interface {
	Send(ctx context.Context, recipient, attachment string) error
}

type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// Env carries the paths given on the root command and the constructors of
// outbound integrations.
type Env struct {
	ConfigPath   string
	SettingsPath string

	NewMailer    func(cfg config.SMTP) Mailer
	NewPublisher func(ctx context.Context, settings config.S3Settings) (Publisher, error)
}

func NewEnv() *Env {
	return &Env{
		NewMailer: func(cfg config.SMTP) Mailer {
			return mail.NewSender(cfg)
		},
		NewPublisher: func(ctx context.Context, settings config.S3Settings) (Publisher, error) {
			return publish.NewS3Publisher(ctx, settings)
		},
	}
}

// Registry loads config.ini and fails when the credentials section is absent.
func (e *Env) Registry(ctx context.Context) (config.Registry, error) {
	registry, err := config.NewRegistry(e.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create config registry: %w", err)
	}

	sections, err := registry.Sections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list config sections: %w", err)
	}
	if !slices.Contains(sections, config.SectionCredentials) {
		return nil, fmt.Errorf("config %s has no [%s] section, found %v",
			e.ConfigPath, config.SectionCredentials, sections)
	}
	return registry, nil
}

func (e *Env) Settings() (*config.Settings, error) {
	return config.LoadSettings(e.SettingsPath)
}

// pipeline is everything needed to produce a report for one project
type pipeline struct {
	creds     *config.Credentials
	settings  *config.Settings
	client    *jira.Client
	generator *report.Generator
}

func (e *Env) pipeline(ctx context.Context, onEpic func()) (*pipeline, error) {
	registry, err := e.Registry(ctx)
	if err != nil {
		return nil, err
	}
	creds, err := registry.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := e.Settings()
	if err != nil {
		return nil, err
	}

	client := newJiraClient(creds, settings)
	opts := hierarchy.Options{Concurrency: settings.Concurrency}
	if onEpic != nil {
		opts.OnEpic = func(domain.Epic) { onEpic() }
	}
	builder := hierarchy.NewBuilder(client, client, client, opts)

	return &pipeline{
		creds:     creds,
		settings:  settings,
		client:    client,
		generator: report.NewGenerator(creds.ProjectKey, client, builder),
	}, nil
}

func newJiraClient(creds *config.Credentials, settings *config.Settings) *jira.Client {
	return jira.NewClient(jira.Options{
		BaseURL:           creds.BaseURL,
		Email:             creds.Email,
		APIKey:            creds.APIKey,
		ProjectKey:        creds.ProjectKey,
		Timeout:           settings.HTTPTimeout,
		RetryMax:          settings.RetryMax,
		RequestsPerMinute: settings.RequestsPerMinute,
		Burst:             settings.Burst,
		PageSize:          settings.PageSize,
		EpicJQL:           settings.EpicJQL,
		TaskJQL:           settings.TaskJQL,
		SubTaskJQL:        settings.SubTaskJQL,
	})
}

// openHistory returns a nil store when no history database is configured.
func openHistory(settings *config.Settings) (runs.Store, *sql.DB, error) {
	if settings.HistoryDB == "" {
		return nil, nil, nil
	}
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.HistoryDB})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	store, err := runs.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create run store: %w", err)
	}
	return store, db, nil
}
