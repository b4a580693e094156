package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/epic-report/pkg/runtime/terminal/export"
)

type FormatCmd struct {
	env        *Env
	projectKey string
}

func NewFormatCmd(env *Env) *cobra.Command {
	fc := &FormatCmd{env: env}
	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Apply report styling to a grid written with --plain",
		Args:  cobra.ExactArgs(1),
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.projectKey, "project", "", "Project key used to detect epic headers (default from config)")

	return cmd
}

func (fc *FormatCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	projectKey := fc.projectKey
	if projectKey == "" {
		registry, err := fc.env.Registry(ctx)
		if err != nil {
			return err
		}
		creds, err := registry.Credentials(ctx)
		if err != nil {
			return err
		}
		projectKey = creds.ProjectKey
	}

	fmt.Fprintln(out, "Applying formatting...")
	stats, err := export.NewReporter(export.Options{}).FormatFile(ctx, args[0], projectKey)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Formatted '%s': %d epics, %d rows, %d done\n", args[0], stats.Headers, stats.Rows, stats.Done)
	return nil
}
