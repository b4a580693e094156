package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/epic-report/pkg/runtime/terminal/commands"
)

const (
	defaultConfigPath = "config.ini"
	defaultLogFile    = "epic-report.log"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	output  io.Writer
	errOut  io.Writer
	debug   bool
	logFile string
	logSink io.Closer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Env       *commands.Env
	Output    io.Writer
	ErrOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Env == nil {
		opts.Env = commands.NewEnv()
	}

	cli := &CLI{
		env:    opts.Env,
		output: opts.Output,
		errOut: opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, used by tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "epic-report",
		Short:             "Jira epic, task and sub-task status report",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}
	cmd.SetOut(cli.output)
	cmd.SetErr(cli.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.env.ConfigPath, "config", "c", defaultConfigPath, "Path to config.ini with credentials and smtp sections")
	flags.StringVar(&cli.env.SettingsPath, "settings", "", "Optional settings file (yaml, json or toml)")
	flags.BoolVar(&cli.debug, "debug", false, "Output log messages to console")
	flags.StringVar(&cli.logFile, "log-file", defaultLogFile, "Path of the log file")

	cmd.AddCommand(commands.NewGenerateCmd(cli.env))
	cmd.AddCommand(commands.NewFormatCmd(cli.env))
	cmd.AddCommand(commands.NewHistoryCmd(cli.env))
	cmd.AddCommand(commands.NewServeCmd(cli.env))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(cli.errOut, "Error loading .env file: %v\n", err)
	}

	logger, sink, err := NewLogger(cli.logFile, cli.debug, cli.errOut)
	if err != nil {
		return err
	}
	cli.logSink = sink

	if cli.debug {
		logger.Info().Msg("debugging mode enabled")
	}
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func (cli *CLI) close() {
	if cli.logSink != nil {
		_ = cli.logSink.Close()
		cli.logSink = nil
	}
}

// NewLogger writes to path at info level. With debug a console writer on
// console is added and the level drops to debug.
func NewLogger(path string, debug bool, console io.Writer) (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	var sink io.Closer

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		sink = f
	}

	level := zerolog.InfoLevel
	if debug {
		writers = append(writers, zerolog.ConsoleWriter{Out: console})
		level = zerolog.DebugLevel
	}

	if len(writers) == 0 {
		return zerolog.Nop(), nil, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	return logger, sink, nil
}
