package execshell

import (
	"context"
	"fmt"
	"strings"
)

const (
	commandGitNameConstant                = "git"
	commandFailedErrorTemplateConstant    = "%s exited with code %d"
	commandFailedStderrTemplateConstant   = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %v"
	outputDecodingErrorTemplateConstant   = "%s produced %s that is not valid UTF-8"
	commandLabelSeparatorConstant         = " "
)

// CommandName identifies an executable invoked through the executor.
type CommandName string

// CommandGit runs the git binary found on PATH.
const CommandGit CommandName = CommandName(commandGitNameConstant)

// CommandDetails describes arguments and environment for a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable output of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner starts a process and waits for it to finish.
// A non-zero exit status is reported through ExecutionResult.ExitCode, not as an error.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

func (failure CommandFailedError) Error() string {
	standardError := strings.TrimSpace(failure.Result.StandardError)
	if len(standardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedStderrTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode, standardError)
}

// CommandExecutionError reports a process that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying runner failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// OutputDecodingError reports process output that is not valid text.
type OutputDecodingError struct {
	Command ShellCommand
	Stream  string
}

func (failure OutputDecodingError) Error() string {
	return fmt.Sprintf(outputDecodingErrorTemplateConstant, describeCommand(failure.Command), failure.Stream)
}

func describeCommand(command ShellCommand) string {
	parts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(parts, commandLabelSeparatorConstant)
}
