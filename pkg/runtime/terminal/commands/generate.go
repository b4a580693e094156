package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/epic-report/pkg/adapters"
	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/runtime/terminal/console"
	"github.com/de-tools/epic-report/pkg/runtime/terminal/export"
	"github.com/de-tools/epic-report/pkg/services/config"
	"github.com/de-tools/epic-report/pkg/store/duckdb"
)

type GenerateCmd struct {
	env    *Env
	email  string
	plain  bool
	dryRun bool
}

func NewGenerateCmd(env *Env) *cobra.Command {
	gc := &GenerateCmd{env: env}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the epic report and optionally email it",
		Args:  cobra.NoArgs,
		RunE:  gc.run,
	}

	cmd.Flags().StringVar(&gc.email, "email", "", "Email address to send the report to")
	cmd.Flags().BoolVar(&gc.plain, "plain", false, "Write the grid without styling")
	cmd.Flags().BoolVar(&gc.dryRun, "dry-run", false, "Print the report to the console instead of writing a file")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)
	out := cmd.OutOrStdout()

	var smtpCfg *config.SMTP
	if gc.email != "" && !gc.dryRun {
		registry, err := gc.env.Registry(ctx)
		if err != nil {
			return err
		}
		cfg, err := registry.SMTP(ctx)
		if err != nil {
			return fmt.Errorf("email requested but smtp is not configured: %w", err)
		}
		smtpCfg = cfg
	}

	var mu sync.Mutex
	p, err := gc.env.pipeline(ctx, func() {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprint(out, "*")
	})
	if err != nil {
		return err
	}

	logger.Info().Str("project", p.creds.ProjectKey).Msg("report generation started")
	fmt.Fprint(out, "Fetching Epics...")
	rpt, err := p.generator.Generate(ctx)
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	if gc.dryRun {
		return console.NewReporter(out).Handle(rpt)
	}

	fmt.Fprintln(out, "Generating Excel report...")
	reporter := export.NewReporter(export.Options{
		Dir:    p.settings.OutputDir,
		Prefix: p.settings.FilePrefix,
		Plain:  gc.plain,
	})
	path, err := reporter.Handle(ctx, rpt)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Report saved as '%s'\n", path)

	run := &domain.Run{
		ID:         uuid.NewString(),
		ProjectKey: rpt.ProjectKey,
		FilePath:   path,
		Epics:      len(rpt.Epics),
		Rows:       len(rpt.Rows),
		Plain:      gc.plain,
		Recipient:  gc.email,
		Status:     domain.RunStatusFinished,
		CreatedAt:  time.Now().UTC(),
	}

	deliverErr := gc.deliver(cmd, p, smtpCfg, path)
	if deliverErr != nil {
		msg := deliverErr.Error()
		run.Status = domain.RunStatusFailed
		run.Error = &msg
	}

	if err := gc.record(cmd, p, run); err != nil {
		logger.Error().Err(err).Str("run", run.ID).Msg("failed to record run")
		if deliverErr == nil {
			return err
		}
	}
	return deliverErr
}

func (gc *GenerateCmd) deliver(cmd *cobra.Command, p *pipeline, smtpCfg *config.SMTP, path string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if p.settings.S3.Bucket != "" {
		publisher, err := gc.env.NewPublisher(ctx, p.settings.S3)
		if err != nil {
			return err
		}
		location, err := publisher.Publish(ctx, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Report uploaded to %s\n", location)
	}

	if smtpCfg != nil {
		fmt.Fprintf(out, "Sending report to %s...\n", gc.email)
		if err := gc.env.NewMailer(*smtpCfg).Send(ctx, gc.email, path); err != nil {
			return err
		}
	}
	return nil
}

func (gc *GenerateCmd) record(cmd *cobra.Command, p *pipeline, run *domain.Run) error {
	store, db, err := openHistory(p.settings)
	if err != nil || store == nil {
		return err
	}
	defer db.Close()

	err = duckdb.InTransaction(cmd.Context(), db, func(ctx context.Context) error {
		return store.AddRun(ctx, adapters.MapDomainRunToStore(run))
	})
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	zerolog.Ctx(cmd.Context()).Info().Str("run", run.ID).Str("status", string(run.Status)).Msg("run recorded")
	return nil
}
