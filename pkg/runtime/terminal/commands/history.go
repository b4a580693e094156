package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/de-tools/epic-report/pkg/adapters"
	"github.com/de-tools/epic-report/pkg/models/domain"
)

type HistoryCmd struct {
	env        *Env
	projectKey string
	limit      int
}

func NewHistoryCmd(env *Env) *cobra.Command {
	hc := &HistoryCmd{env: env}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated reports",
		Args:  cobra.NoArgs,
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.projectKey, "project", "", "Only show runs of this project")
	cmd.Flags().IntVar(&hc.limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := hc.env.Settings()
	if err != nil {
		return err
	}
	store, db, err := openHistory(settings)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("run history is disabled, set history_db to enable it")
	}
	defer db.Close()

	stored, err := store.ListRuns(ctx, hc.projectKey, hc.limit)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tPROJECT\tSTATUS\tEPICS\tROWS\tRECIPIENT\tFILE")
	for _, s := range stored {
		run := adapters.MapStoreRunToDomain(s)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			run.CreatedAt.UTC().Format(domain.TimestampLayout),
			run.ProjectKey,
			run.Status,
			run.Epics,
			run.Rows,
			run.Recipient,
			run.FilePath)
	}
	return tw.Flush()
}
