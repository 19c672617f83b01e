//go:build !windows

package execshell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitrepos/internal/execshell"
)

const testShellCommandName execshell.CommandName = "sh"

func TestOSCommandRunnerCapturesOutput(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "marker.txt"), []byte("marker"), 0o600))
	runner := execshell.NewOSCommandRunner()

	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: testShellCommandName,
		Details: execshell.CommandDetails{
			Arguments:            []string{"-c", "ls; printf %s \"$GITREPOS_TEST_VALUE\" 1>&2"},
			WorkingDirectory:     workingDirectory,
			EnvironmentVariables: map[string]string{"GITREPOS_TEST_VALUE": "captured"},
		},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, result.ExitCode)
	require.Equal(testInstance, "marker.txt\n", result.StandardOutput)
	require.Equal(testInstance, "captured", result.StandardError)
}

func TestOSCommandRunnerReportsExitCode(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    testShellCommandName,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "echo failure 1>&2; exit 3"}},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, result.ExitCode)
	require.Equal(testInstance, "failure\n", result.StandardError)
}

func TestOSCommandRunnerRejectsInvalidText(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    testShellCommandName,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "printf '\\377\\376'"}},
	})
	var decodingError execshell.OutputDecodingError
	require.ErrorAs(testInstance, runError, &decodingError)
	require.Equal(testInstance, "stdout", decodingError.Stream)
}

func TestOSCommandRunnerReportsMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{Name: "gitrepos-missing-executable"})
	require.Error(testInstance, runError)
}
