package commands

import (
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/epic-report/pkg/runtime/terminal/export"
	"github.com/de-tools/epic-report/pkg/server"
)

type ServeCmd struct {
	env  *Env
	addr string
}

func NewServeCmd(env *Env) *cobra.Command {
	sc := &ServeCmd{env: env}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the report preview API",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.addr, "addr", "", "Listen address (default SERVER_HOST:SERVER_PORT)")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	addr, err := listenAddr(sc.addr)
	if err != nil {
		return err
	}

	p, err := sc.env.pipeline(ctx, nil)
	if err != nil {
		return err
	}

	store, db, err := openHistory(p.settings)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	logger.Info().Msgf("Configuration found at `%s` successfully loaded.", sc.env.ConfigPath)
	logger.Info().Str("project", p.creds.ProjectKey).Bool("history", store != nil).Msg("serving report")

	api := server.NewWebAPI(*logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Generator: p.generator,
			Workbook: export.NewReporter(export.Options{
				Prefix: p.settings.FilePrefix,
			}),
			Runs: store,
		},
	})
	return api.Start()
}

func listenAddr(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		return "", fmt.Errorf("missing server address, pass --addr or set SERVER_PORT")
	}
	return net.JoinHostPort(host, port), nil
}
