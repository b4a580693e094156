package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_FileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.log")
	var console bytes.Buffer

	logger, sink, err := NewLogger(path, false, &console)
	require.NoError(t, err)
	logger.Info().Msg("report saved")
	logger.Debug().Msg("hidden")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"report saved"`)
	assert.NotContains(t, string(data), "hidden")
	assert.Empty(t, console.String())
}

func TestNewLogger_DebugAddsConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.log")
	var console bytes.Buffer

	logger, sink, err := NewLogger(path, true, &console)
	require.NoError(t, err)
	logger.Debug().Msg("smtp dial")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "smtp dial")
	assert.Contains(t, console.String(), "smtp dial")
}

func TestNewLogger_BadPath(t *testing.T) {
	_, _, err := NewLogger(filepath.Join(t.TempDir(), "missing", "report.log"), false, nil)

	assert.ErrorContains(t, err, "failed to open log file")
}

func TestCLI_ExecuteSubcommand(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "epic-report.log")
	t.Setenv("EPIC_REPORT_HISTORY_DB", "")
	var out, errOut bytes.Buffer

	cli := NewCLI(Options{Output: &out, ErrOutput: &errOut})
	cli.SetArgs([]string{"history", "--log-file", logPath})
	err := cli.Execute()

	assert.ErrorContains(t, err, "run history is disabled")
	_, statErr := os.Stat(logPath)
	assert.NoError(t, statErr)
}

func TestCLI_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, ErrOutput: &out})
	cli.SetArgs([]string{"analyze"})

	assert.Error(t, cli.Execute())
}
